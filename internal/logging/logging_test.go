package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logrus.Level
		wantErr bool
	}{
		{"", logrus.InfoLevel, false},
		{"debug", logrus.DebugLevel, false},
		{"warn", logrus.WarnLevel, false},
		{"ERROR", logrus.ErrorLevel, false},
		{"loud", logrus.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "moosack.log")
	prevLevel := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(prevLevel) })

	closer, err := Setup("warn", path)
	require.NoError(t, err)

	logrus.Info("hidden")
	logrus.WithField("source", "File(a.mp3)").Warn("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
	assert.Contains(t, string(data), "source=")
}

func TestSetup_BadLevel(t *testing.T) {
	_, err := Setup("nope", filepath.Join(t.TempDir(), "x.log"))
	assert.Error(t, err)
}

func TestConfigure(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer

	configure(l, &buf, logrus.DebugLevel)
	l.Debug("details")

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "details")
}
