package townview

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameStats_Tick(t *testing.T) {
	st := NewFrameStats()
	for i := 0; i < 59; i++ {
		require.False(t, st.Tick(time.Second/60))
	}
	assert.True(t, st.Tick(time.Second/60+time.Millisecond))
	assert.InDelta(t, 60, st.FPS, 0.1)
	assert.Equal(t, uint64(60), st.Frames)

	st.SetCount("nodes", 256)
	st.SetCount("draws", 60)
	assert.Equal(t, "fps=59.9 frames=60 draws=60 nodes=256", st.String())
}

func TestDefaultLogger(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewDefaultLoggerTo("town", false, &out, &errOut)

	log.Debugf("hidden %d", 1)
	log.Infof("built %d tiles", 4)
	log.Warnf("careful")
	assert.NotContains(t, out.String(), "hidden")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out.String()), "[town] INFO: built 4 tiles"))
	assert.Contains(t, errOut.String(), "[town] WARN: careful")

	log.SetDebug(true)
	assert.True(t, log.DebugEnabled())
	log.Debugf("shown")
	assert.Contains(t, out.String(), "[town] DEBUG: shown")

	plain := NewDefaultLoggerTo("", false, &out, &errOut)
	plain.Errorf("bare")
	assert.Contains(t, errOut.String(), "ERROR: bare")
}
