// Package simtest hosts property-based tests over the simulator kernels:
// cross-kernel agreement, the state-vector norm invariant, palindromic-circuit
// hermiticity, and pruning soundness (spec.md §8). Identity, involution and
// phase-inverse checks live in the per-kernel unit tests instead.
package simtest

import (
	"math/rand"
	"strings"

	"qampsim/internal/gatestream"
)

// randomCircuit builds a well-formed gate stream string over n qubits from
// a seeded RNG, restricted to the four supported gate kinds.
func randomCircuit(seed int64, n, gates int) string {
	r := rand.New(rand.NewSource(seed))
	var b strings.Builder
	for i := 0; i < gates; i++ {
		writeRandomGate(&b, r, n)
	}
	return b.String()
}

func writeRandomGate(b *strings.Builder, r *rand.Rand, n int) {
	switch r.Intn(4) {
	case 0:
		b.WriteString("0 h ")
		b.WriteByte(digit(r.Intn(n)))
		b.WriteByte('\n')
	case 1:
		if n < 3 {
			b.WriteString("0 h 0\n")
			return
		}
		qs := r.Perm(n)[:3]
		b.WriteString("0 t ")
		for _, q := range qs {
			b.WriteByte(digit(q))
			b.WriteByte(' ')
		}
		b.WriteString("\n")
	case 2:
		b.WriteString("0 U ")
		b.WriteByte(digit(1 + r.Intn(3)))
		b.WriteByte(' ')
		b.WriteByte(digit(r.Intn(n)))
		b.WriteByte('\n')
	case 3:
		if n < 2 {
			b.WriteString("0 h 0\n")
			return
		}
		qs := r.Perm(n)[:2]
		b.WriteString("1 u ")
		b.WriteByte(digit(1 + r.Intn(3)))
		b.WriteByte(' ')
		b.WriteByte(digit(qs[0]))
		b.WriteByte(' ')
		b.WriteByte(digit(qs[1]))
		b.WriteByte('\n')
	}
}

func digit(v int) byte { return byte('0' + v) }

func parse(src string, n int) (*gatestream.Sequence, error) {
	return gatestream.Parse(strings.NewReader(src), n)
}
