package logx

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug))
	log.Info("load started", "url", "https://x/y.png", "gen", 2)

	got := buf.String()
	if !strings.HasPrefix(got, Prefix+" ") {
		t.Errorf("line %q missing prefix", got)
	}
	for _, want := range []string{"INFO", "load started", "url=https://x/y.png", "gen=2"} {
		if !strings.Contains(got, want) {
			t.Errorf("line %q missing %q", got, want)
		}
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("line should end with a newline")
	}
}

func TestHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record written at info level: %q", buf.String())
	}
	log = New(&buf, true)
	log.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug record missing in debug mode: %q", buf.String())
	}
}

func TestHandlerAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo)).With("canvas", 1).WithGroup("load")
	log.Warn("slow", "took", 1500*time.Millisecond, "msg", "two words")

	got := buf.String()
	for _, want := range []string{"WARN", "canvas=1", "load.took=1.5s", `load.msg="two words"`} {
		if !strings.Contains(got, want) {
			t.Errorf("line %q missing %q", got, want)
		}
	}
}
