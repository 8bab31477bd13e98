package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, log.WarnLevel, Level(false))
	assert.Equal(t, log.DebugLevel, Level(true))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.verbose)

			logger.Debug("scanning", "dir", "/usr/share/applications")
			logger.Warn("skipping file", "path", "broken.desktop")

			out := buf.String()
			assert.Contains(t, out, "skipping file")
			assert.Contains(t, out, "broken.desktop")

			if tt.wantDebug {
				assert.Contains(t, out, "scanning")
			} else {
				assert.NotContains(t, out, "scanning")
			}
		})
	}
}
