package photomark

import (
	"fmt"
	"log/slog"
	"time"
)

// debugStats holds per-repaint timing and counts.
// Only populated when the canvas is in debug mode.
type debugStats struct {
	sortTime    time.Duration
	paintTime   time.Duration
	objectCount int
	bgCount     int
}

// debugLog reports repaint stats at debug level.
func (c *Canvas) debugLog(stats debugStats) {
	if !c.debug {
		return
	}
	c.log.Debug("repaint",
		"sort", stats.sortTime,
		"paint", stats.paintTime,
		"total", stats.sortTime+stats.paintTime,
		"objects", stats.objectCount,
		"backgrounds", stats.bgCount)
	if stats.objectCount > debugMaxObjectCount {
		c.log.Warn("object count exceeds threshold",
			"objects", stats.objectCount, "threshold", debugMaxObjectCount)
	}
}

// debugMaxObjectCount is the object count above which debug mode warns.
const debugMaxObjectCount = 1000

// SetDebugMode enables per-repaint timing logs and disposed-object checks.
func (c *Canvas) SetDebugMode(on bool) {
	c.debug = on
}

// debugCheckDisposed panics with a descriptive message when a disposed object
// is handed to a canvas operation. Only called in debug mode.
func debugCheckDisposed(o *SceneObject, op string) {
	if o != nil && o.disposed {
		panic(fmt.Sprintf("photomark debug: %s on disposed object %q", op, o.ID))
	}
}

// discardLogger is the default logger: it drops everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
