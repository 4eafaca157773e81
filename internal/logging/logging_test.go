package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"Quiet", false, false},
		{"Verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Init(&buf, tt.verbose)
			logger.Debug("rendered diagram", "participants", 3)
			slog.Warn("slow render")

			out := buf.String()
			if got := strings.Contains(out, "rendered diagram"); got != tt.wantDebug {
				t.Fatalf("debug record present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "slow render") {
				t.Fatalf("warn record missing from default logger:\n%s", out)
			}
		})
	}
}
