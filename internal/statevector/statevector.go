// Package statevector implements the dense amplitude-array simulator:
// time T·2^n, space 2^n (spec.md §4.3).
package statevector

import (
	"fmt"
	"math"
	"math/cmplx"

	"qampsim/internal/bitalgebra"
	"qampsim/internal/gatestream"
)

// Oversize is returned when the requested 2^n amplitude table would exceed
// the configured memory budget.
type Oversize struct {
	Qubits int
	Bytes  uint64
	Budget uint64
}

func (e *Oversize) Error() string {
	return fmt.Sprintf("statevector: %d qubits needs %d bytes of amplitude storage, exceeding the %d byte budget", e.Qubits, e.Bytes, e.Budget)
}

// DefaultMemoryBudgetBytes bounds the amplitude table's size. The original
// C++ declared enormous static arrays (INT_MAX and INT_MAX/2048 doubles)
// that never actually allocate on a real machine (spec.md §9); this budget
// is what that comment stood in for — a real, checkable ceiling on a table
// sized dynamically to 2^n.
const DefaultMemoryBudgetBytes = 1 << 30

const bytesPerAmplitude = 16 // complex128

// CheckSize returns Oversize if an n-qubit amplitude table would exceed
// budget bytes.
func CheckSize(n int, budget uint64) error {
	if n < 0 || n > 62 {
		return &Oversize{Qubits: n, Bytes: ^uint64(0), Budget: budget}
	}
	need := (uint64(1) << uint(n)) * bytesPerAmplitude
	if need > budget {
		return &Oversize{Qubits: n, Bytes: need, Budget: budget}
	}
	return nil
}

// Amplitude computes ⟨y|C|x⟩ for the n-qubit circuit by evolving the full
// dense amplitude table in place.
func Amplitude(seq *gatestream.Sequence, n, x, y int) (complex128, error) {
	return AmplitudeWithBudget(seq, n, x, y, DefaultMemoryBudgetBytes)
}

// AmplitudeWithBudget is Amplitude with an explicit memory budget.
func AmplitudeWithBudget(seq *gatestream.Sequence, n, x, y int, budget uint64) (complex128, error) {
	if err := CheckSize(n, budget); err != nil {
		return 0, err
	}
	size := uint64(1) << uint(n)
	amps := make([]complex128, size)
	amps[x] = 1

	for _, rec := range seq.Records() {
		if err := apply(amps, n, rec); err != nil {
			return 0, err
		}
	}
	return amps[y], nil
}

func apply(amps []complex128, n int, rec gatestream.Record) error {
	switch rec.Kind {
	case gatestream.Hadamard:
		applyHadamard(amps, n, rec.Target)
	case gatestream.Toffoli:
		if err := gatestream.ValidateToffoli(rec.Control1, rec.Control2, rec.Target); err != nil {
			return err
		}
		applyToffoli(amps, n, rec.Control1, rec.Control2, rec.Target)
	case gatestream.PhasePositive, gatestream.PhaseNegative:
		if rec.Controlled {
			if err := gatestream.ValidateControlledPhase(rec.Kind, rec.Control1, rec.Target); err != nil {
				return err
			}
		}
		applyPhase(amps, n, rec)
	default:
		return &gatestream.UnsupportedGate{Kind: rec.Kind, Msg: "unknown gate kind"}
	}
	return nil
}

// applyHadamard updates A in place: for each pair of indices differing
// only in qubit q, (z, o) -> ((z+o)/sqrt2, (z-o)/sqrt2).
func applyHadamard(amps []complex128, n, q int) {
	bit := uint64(1) << uint(bitalgebra.BitPos(q, n))
	inv := complex(1/math.Sqrt2, 0)
	bitalgebra.IterateFixed(n, bit, 0, func(i0 uint64) {
		i1 := i0 | bit
		z, o := amps[i0], amps[i1]
		amps[i0] = inv * (z + o)
		amps[i1] = inv * (z - o)
	})
}

// applyToffoli iterates only indices where both control qubits are 1 (a
// factor-4 speedup over a full scan) and swaps the tgt=0/tgt=1 pair.
func applyToffoli(amps []complex128, n, c1, c2, tgt int) {
	c1Bit := uint64(1) << uint(bitalgebra.BitPos(c1, n))
	c2Bit := uint64(1) << uint(bitalgebra.BitPos(c2, n))
	tgtBit := uint64(1) << uint(bitalgebra.BitPos(tgt, n))
	mask := c1Bit | c2Bit
	bitalgebra.IterateFixed(n, mask, mask, func(idx uint64) {
		if idx&tgtBit == 0 {
			j := idx | tgtBit
			amps[idx], amps[j] = amps[j], amps[idx]
		}
	})
}

// applyPhase multiplies by e^{±2*pi*i/2^k} at every index where the phase
// gate's trigger condition holds, visiting only that subset.
func applyPhase(amps []complex128, n int, rec gatestream.Record) {
	angle := 2 * math.Pi / math.Pow(2, float64(rec.PhasePow))
	if rec.Kind == gatestream.PhaseNegative {
		angle = -angle
	}
	phase := cmplx.Exp(complex(0, angle))

	tgtBit := uint64(1) << uint(bitalgebra.BitPos(rec.Target, n))
	mask, val := tgtBit, tgtBit
	if rec.Controlled {
		ctrlBit := uint64(1) << uint(bitalgebra.BitPos(rec.Control1, n))
		mask |= ctrlBit
		val |= ctrlBit
	}
	bitalgebra.IterateFixed(n, mask, val, func(idx uint64) {
		amps[idx] *= phase
	})
}
