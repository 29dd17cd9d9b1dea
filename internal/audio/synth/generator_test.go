package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Deterministic(t *testing.T) {
	// Two independent generators asked for the same instant agree exactly
	a := NewGenerator().At(1.234)
	b := NewGenerator().At(1.234)

	assert.Equal(t, a.Frequency, b.Frequency)
	assert.Equal(t, a.Waveform, b.Waveform)
	assert.Equal(t, a.Amplitude, b.Amplitude)
	assert.Equal(t, a.Bass, b.Bass)
	assert.Equal(t, a.Mid, b.Mid)
	assert.Equal(t, a.High, b.High)
	assert.Equal(t, a.IsBeat, b.IsBeat)
}

func TestGenerator_PureInTime(t *testing.T) {
	// Output depends only on t, not on call history
	g := NewGenerator()
	g.At(0.5)
	g.At(9.9)
	replayed := g.At(0.5)

	fresh := NewGenerator().At(0.5)
	assert.Equal(t, fresh.Frequency, replayed.Frequency)
	assert.Equal(t, fresh.Waveform, replayed.Waveform)
}

func TestGenerator_SnapshotShape(t *testing.T) {
	snap := NewGenerator().At(2.0)

	require.Len(t, snap.Frequency, numBins)
	require.Len(t, snap.Waveform, windowSize)

	assert.GreaterOrEqual(t, snap.Amplitude, 0.0)
	assert.LessOrEqual(t, snap.Amplitude, 1.0)
	for _, v := range []float64{snap.Bass, snap.Mid, snap.High} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestGenerator_BeatBuckets(t *testing.T) {
	// The beat flag pulses at the start of every half-second bucket
	assert.True(t, beatAt(0))
	assert.True(t, beatAt(0.5))
	assert.True(t, beatAt(1.0))
	assert.True(t, beatAt(2.54))

	assert.False(t, beatAt(0.25))
	assert.False(t, beatAt(0.49))
	assert.False(t, beatAt(1.3))
	assert.False(t, beatAt(-1))
}

func TestGenerator_BuffersAliasBetweenCalls(t *testing.T) {
	g := NewGenerator()
	first := g.At(0)
	second := g.At(1)

	// Documented contract: snapshots alias the generator's buffers
	assert.Equal(t, &first.Frequency[0], &second.Frequency[0])
}
