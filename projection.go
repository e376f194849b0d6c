package photomark

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Position is a layer's X, Y.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayerRecord is the inspector's view of one object. It is recomputed from
// the scene on every change and never stored.
type LayerRecord struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Radius   int      `json:"radius,omitempty"`
	Color    string   `json:"color,omitempty"`
	Text     string   `json:"text,omitempty"`
	ZIndex   int      `json:"zIndex"`
}

// Project builds one record per object in the given (paint) order.
func Project(objs []*SceneObject) []LayerRecord {
	out := make([]LayerRecord, 0, len(objs))
	for _, o := range objs {
		rec := LayerRecord{
			ID:       o.ID,
			Type:     o.Kind.layerType(),
			Position: Position{X: o.X, Y: o.Y},
			Width:    int(math.Round(o.ScaledWidth())),
			Height:   int(math.Round(o.ScaledHeight())),
			Color:    o.Fill.Value,
			Text:     o.Text,
			ZIndex:   o.StackKey,
		}
		if o.Kind == KindCircle {
			rec.Radius = int(math.Round(o.ScaledRadius()))
		}
		out = append(out, rec)
	}
	return out
}

// FormatLayers renders records as indented JSON, the debug log format.
func FormatLayers(records []LayerRecord) (string, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("photomark: format layers: %w", err)
	}
	return string(data), nil
}

// Summary renders one line per record plus a total, as the debug panel
// shows them.
func Summary(records []LayerRecord) string {
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "%-8s z=%-11d x=%d y=%d", r.Type, r.ZIndex,
			int(math.Round(r.Position.X)), int(math.Round(r.Position.Y)))
		if r.Width != 0 && r.Height != 0 {
			fmt.Fprintf(&b, " %dx%d", r.Width, r.Height)
		}
		if r.Radius != 0 {
			fmt.Fprintf(&b, " r=%d", r.Radius)
		}
		if r.Color != "" {
			fmt.Fprintf(&b, " %s", r.Color)
		}
		if r.Text != "" {
			fmt.Fprintf(&b, " %q", r.Text)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d layers\n", len(records))
	return b.String()
}
