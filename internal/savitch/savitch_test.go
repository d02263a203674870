package savitch

import (
	"math"
	"math/cmplx"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"qampsim/internal/bitalgebra"
	"qampsim/internal/gatestream"
)

func seqOf(t *testing.T, src string, n int) *gatestream.Sequence {
	t.Helper()
	seq, err := gatestream.Parse(strings.NewReader(src), n)
	require.NoError(t, err)
	return seq
}

func TestIdentityOnEmptyCircuit(t *testing.T) {
	seq := seqOf(t, "", 1)
	got, err := Amplitude(seq, 1, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 1, real(got), 1e-9)
}

func TestS1DoubleHadamardIsIdentity(t *testing.T) {
	seq := seqOf(t, "0 h 0\n0 h 0\n", 1)
	got, err := Amplitude(seq, 1, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 1, real(got), 1e-9)
	require.InDelta(t, 0, imag(got), 1e-9)
}

func TestS2SingleHadamard(t *testing.T) {
	seq := seqOf(t, "0 h 0\n", 1)
	got, err := Amplitude(seq, 1, 0, 1)
	require.NoError(t, err)
	require.InDelta(t, 1/math.Sqrt2, real(got), 1e-9)
}

func TestS3ToffoliFires(t *testing.T) {
	seq := seqOf(t, "0 t 0 1 2\n", 3)
	got, err := Amplitude(seq, 3, 0b110, 0b111)
	require.NoError(t, err)
	require.InDelta(t, 1, real(got), 1e-9)
}

func TestS4ToffoliDoesNotFire(t *testing.T) {
	seq := seqOf(t, "0 t 0 1 2\n", 3)
	got, err := Amplitude(seq, 3, 0b010, 0b010)
	require.NoError(t, err)
	require.InDelta(t, 1, real(got), 1e-9)
}

func TestS5TwoPairsOfHadamards(t *testing.T) {
	seq := seqOf(t, "0 h 0\n0 h 1\n0 h 0\n0 h 1\n", 2)
	got, err := Amplitude(seq, 2, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 1, real(got), 1e-9)
}

func TestS6HadamardPhaseHadamard(t *testing.T) {
	seq := seqOf(t, "0 h 0\n0 U 2 0\n0 h 0\n", 1)
	got, err := Amplitude(seq, 1, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.5, real(got), 1e-9)
	require.InDelta(t, 0.5, imag(got), 1e-9)
}

func TestS7ThreeQubitQFTUniform(t *testing.T) {
	src := "" +
		"0 h 0\n" +
		"1 U 2 0 1\n" +
		"1 U 3 0 2\n" +
		"0 h 1\n" +
		"1 U 2 1 2\n" +
		"0 h 2\n"
	seq := seqOf(t, src, 3)
	for y := 0; y < 8; y++ {
		got, err := Amplitude(seq, 3, 0, y)
		require.NoError(t, err)
		require.InDelta(t, 1/math.Sqrt(8), cmplx.Abs(got), 1e-9)
	}
}

func TestPruningSoundnessAgreesWithUnpruned(t *testing.T) {
	src := "0 h 0\n0 h 1\n0 t 0 1 2\n1 U 3 0 2\n0 h 2\n0 u 2 1\n0 h 0\n"
	seq := seqOf(t, src, 3)
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			pruned, err := AmplitudeWithOptions(seq, 3, x, y, Options{Pruning: true})
			require.NoError(t, err)
			unpruned, err := AmplitudeWithOptions(seq, 3, x, y, Options{Pruning: false})
			require.NoError(t, err)
			require.InDelta(t, real(unpruned), real(pruned), 1e-12)
			require.InDelta(t, imag(unpruned), imag(pruned), 1e-12)
		}
	}
}

func TestLayersNoQubitTouchedTwicePerLayer(t *testing.T) {
	src := "0 h 0\n0 h 1\n0 t 0 1 2\n0 U 2 1\n0 h 2\n"
	seq := seqOf(t, src, 3)
	layers, err := BuildLayers(seq.Records(), 3, DefaultLayerCap)
	require.NoError(t, err)

	for i := 0; i < layers.Count(); i++ {
		var touched uint64
		for _, rec := range layers.Gates(i) {
			t2, err := touchSet(rec, 3)
			require.NoError(t, err)
			require.Zero(t, touched&t2, "layer %d touches a qubit twice", i)
			touched |= t2
		}
	}
}

func TestLayersConcatenateToOriginalSequence(t *testing.T) {
	src := "0 h 0\n0 h 1\n0 t 0 1 2\n0 U 2 1\n0 h 2\n"
	seq := seqOf(t, src, 3)
	layers, err := BuildLayers(seq.Records(), 3, DefaultLayerCap)
	require.NoError(t, err)

	var reconstructed []gatestream.Record
	for i := 0; i < layers.Count(); i++ {
		reconstructed = append(reconstructed, layers.Gates(i)...)
	}
	require.Equal(t, seq.Records(), reconstructed)
}

func TestLayerLimitExceeded(t *testing.T) {
	// Every gate touches qubit 0, so no two consecutive gates can share a
	// layer: this forces exactly one layer per gate.
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("0 h 0\n")
	}
	seq := seqOf(t, b.String(), 1)
	_, err := BuildLayers(seq.Records(), 1, 5)
	require.Error(t, err)
	var ll *LayerLimit
	require.ErrorAs(t, err, &ll)
}

func TestHammingHelperUsedByPruning(t *testing.T) {
	require.Equal(t, 0, bitalgebra.Hamming(0b101, 0b101))
	require.Equal(t, 2, bitalgebra.Hamming(0b101, 0b000))
}
