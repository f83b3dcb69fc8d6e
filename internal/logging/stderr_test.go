//go:build !windows

package logging

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardLines(t *testing.T) {
	logger, hook := test.NewNullLogger()

	forwardLines(strings.NewReader("ALSA lib pcm.c: underrun\n\n   \nsecond line\n"),
		logger.WithField("stream", "stderr"))

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "ALSA lib pcm.c: underrun", entries[0].Message)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, "stderr", entries[1].Data["stream"])
}
