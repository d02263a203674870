package savitch

import (
	"encoding/binary"
	"math"
	"math/cmplx"

	"github.com/cespare/xxhash/v2"

	"qampsim/internal/bitalgebra"
	"qampsim/internal/gatestream"
)

// Options configures a Savitch run.
type Options struct {
	LayerCap int  // 0 means DefaultLayerCap
	Pruning  bool
}

// Amplitude computes ⟨y|C|x⟩ via layer decomposition and recursive
// bisection, with reachability pruning and the default layer cap.
func Amplitude(seq *gatestream.Sequence, n, x, y int) (complex128, error) {
	return AmplitudeWithOptions(seq, n, x, y, Options{Pruning: true})
}

// AmplitudeWithOptions is Amplitude with explicit layer cap and pruning
// control, used by property tests that compare pruned against unpruned runs.
func AmplitudeWithOptions(seq *gatestream.Sequence, n, x, y int, opts Options) (complex128, error) {
	layerCap := opts.LayerCap
	if layerCap <= 0 {
		layerCap = DefaultLayerCap
	}
	layers, err := BuildLayers(seq.Records(), n, layerCap)
	if err != nil {
		return 0, err
	}
	if layers.Count() == 0 {
		if uint64(x) == uint64(y) {
			return 1, nil
		}
		return 0, nil
	}

	r := &recurser{n: n, layers: layers, pruning: opts.Pruning, memo: make(map[uint64][]memoEntry)}
	return r.s(0, layers.Count()-1, uint64(x), uint64(y))
}

type memoEntry struct {
	lo, hi int
	s, e   uint64
	val    complex128
}

// recurser carries the per-call state threaded through the S(lo,hi,s,e)
// recursion: the layer table, pruning policy, and a memo table keyed by an
// xxhash digest of (lo,hi,s,e), since the same sub-range recurs across many
// branches of the bisection.
type recurser struct {
	n       int
	layers  *Layers
	pruning bool
	memo    map[uint64][]memoEntry
}

func (r *recurser) s(lo, hi int, s, e uint64) (complex128, error) {
	key := hashKey(lo, hi, s, e)
	if bucket, ok := r.memo[key]; ok {
		for _, entry := range bucket {
			if entry.lo == lo && entry.hi == hi && entry.s == s && entry.e == e {
				return entry.val, nil
			}
		}
	}
	val, err := r.compute(lo, hi, s, e)
	if err != nil {
		return 0, err
	}
	r.memo[key] = append(r.memo[key], memoEntry{lo, hi, s, e, val})
	return val, nil
}

func hashKey(lo, hi int, s, e uint64) uint64 {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(lo))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(hi))
	binary.LittleEndian.PutUint64(buf[16:24], s)
	binary.LittleEndian.PutUint64(buf[24:32], e)
	return xxhash.Sum64(buf[:])
}

func (r *recurser) compute(lo, hi int, s, e uint64) (complex128, error) {
	if lo == hi {
		return r.evalLayer(lo, s, e)
	}

	mid := (lo + hi) / 2
	leftWidth := r.layers.GateSpan(lo, mid)
	rightWidth := r.layers.GateSpan(mid+1, hi)

	var total complex128
	size := uint64(1) << uint(r.n)
	for i := uint64(0); i < size; i++ {
		if r.pruning && bitalgebra.Hamming(s, i) > leftWidth {
			continue
		}
		left, err := r.s(lo, mid, s, i)
		if err != nil {
			return 0, err
		}
		if left == 0 {
			continue
		}
		if r.pruning && bitalgebra.Hamming(i, e) > rightWidth {
			continue
		}
		right, err := r.s(mid+1, hi, i, e)
		if err != nil {
			return 0, err
		}
		total += left * right
	}
	return total, nil
}

// evalLayer evaluates one layer exactly: each referenced qubit is touched
// at most once, so the result is either 0 or a product of single-qubit
// amplitudes forced toward the target basis state e.
func (r *recurser) evalLayer(idx int, s, e uint64) (complex128, error) {
	result := complex128(1)
	qubits := s

	for _, rec := range r.layers.Gates(idx) {
		switch rec.Kind {
		case gatestream.Hadamard:
			pos := uint(bitalgebra.BitPos(rec.Target, r.n))
			result *= complex(1/math.Sqrt2, 0)
			prevBit := (qubits >> pos) & 1
			eBit := (e >> pos) & 1
			if prevBit == 1 && eBit == 1 {
				result = -result
			}
			if eBit == 1 {
				qubits |= uint64(1) << pos
			} else {
				qubits &^= uint64(1) << pos
			}

		case gatestream.Toffoli:
			if err := gatestream.ValidateToffoli(rec.Control1, rec.Control2, rec.Target); err != nil {
				return 0, err
			}
			if bitalgebra.Get(qubits, rec.Control1, r.n) == 1 && bitalgebra.Get(qubits, rec.Control2, r.n) == 1 {
				qubits = bitalgebra.Flip(qubits, rec.Target, r.n)
			}

		case gatestream.PhasePositive, gatestream.PhaseNegative:
			if rec.Controlled {
				if err := gatestream.ValidateControlledPhase(rec.Kind, rec.Control1, rec.Target); err != nil {
					return 0, err
				}
			}
			trigger := bitalgebra.Get(qubits, rec.Target, r.n) == 1
			if rec.Controlled {
				trigger = trigger && bitalgebra.Get(qubits, rec.Control1, r.n) == 1
			}
			if trigger {
				angle := 2 * math.Pi / math.Pow(2, float64(rec.PhasePow))
				if rec.Kind == gatestream.PhaseNegative {
					angle = -angle
				}
				result *= cmplx.Exp(complex(0, angle))
			}

		default:
			return 0, &gatestream.UnsupportedGate{Kind: rec.Kind, Msg: "unknown gate kind"}
		}
	}

	if qubits != e {
		return 0, nil
	}
	return result, nil
}
