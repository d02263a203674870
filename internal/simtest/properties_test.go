package simtest

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"qampsim/internal/pathintegral"
	"qampsim/internal/savitch"
	"qampsim/internal/statevector"
)

func gopterParams() *gopter.TestParameters {
	p := gopter.DefaultTestParameters()
	p.MinSuccessfulTests = 60
	return p
}

// TestKernelsAgree checks property #5: the three kernels agree on every
// circuit with n <= 4 qubits and <= 20 gates drawn from {H, Toffoli, U, u}.
func TestKernelsAgree(t *testing.T) {
	properties := gopter.NewProperties(gopterParams())

	properties.Property("state-vector, path-integral and savitch agree", prop.ForAll(
		func(seed int64, n, gates int) bool {
			src := randomCircuit(seed, n, gates)
			seq, err := parse(src, n)
			if err != nil {
				return false
			}
			r := rand.New(rand.NewSource(seed + 1))
			x := r.Intn(1 << uint(n))
			y := r.Intn(1 << uint(n))

			sv, err := statevector.Amplitude(seq, n, x, y)
			if err != nil {
				return false
			}
			pi, err := pathintegral.Amplitude(seq, n, x, y, seq.CountChanges())
			if err != nil {
				return false
			}
			sa, err := savitch.Amplitude(seq, n, x, y)
			if err != nil {
				return false
			}
			return closeEnough(sv, pi, 1e-9) && closeEnough(sv, sa, 1e-9)
		},
		gen.Int64Range(0, 1<<30),
		gen.IntRange(1, 4),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestStateVectorNormInvariant checks property #6.
func TestStateVectorNormInvariant(t *testing.T) {
	properties := gopter.NewProperties(gopterParams())

	properties.Property("sum of |amplitude|^2 over all y is 1", prop.ForAll(
		func(seed int64, n, gates int) bool {
			src := randomCircuit(seed, n, gates)
			seq, err := parse(src, n)
			if err != nil {
				return false
			}
			r := rand.New(rand.NewSource(seed + 2))
			x := r.Intn(1 << uint(n))

			var total float64
			for y := 0; y < 1<<uint(n); y++ {
				a, err := statevector.Amplitude(seq, n, x, y)
				if err != nil {
					return false
				}
				total += real(a)*real(a) + imag(a)*imag(a)
			}
			return total > 1-1e-9 && total < 1+1e-9
		},
		gen.Int64Range(0, 1<<30),
		gen.IntRange(1, 4),
		gen.IntRange(0, 15),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestHermiticityOfRealCircuits checks property #7 for circuits built only
// from H and Toffoli: <y|C|x> = <x|C^-1|y>, and for palindromic (hence
// self-inverse) circuits, <y|C|x> = <x|C|y>.
func TestHermiticityOfRealCircuits(t *testing.T) {
	properties := gopter.NewProperties(gopterParams())

	properties.Property("palindromic H/Toffoli circuits are symmetric", prop.ForAll(
		func(seed int64, n, half int) bool {
			r := rand.New(rand.NewSource(seed))
			var b strings.Builder
			var gates []string
			for i := 0; i < half; i++ {
				var g strings.Builder
				writeRealGate(&g, r, n)
				gates = append(gates, g.String())
			}
			for _, g := range gates {
				b.WriteString(g)
			}
			for i := len(gates) - 1; i >= 0; i-- {
				b.WriteString(gates[i])
			}
			seq, err := parse(b.String(), n)
			if err != nil {
				return false
			}
			r2 := rand.New(rand.NewSource(seed + 3))
			x := r2.Intn(1 << uint(n))
			y := r2.Intn(1 << uint(n))

			forward, err := statevector.Amplitude(seq, n, x, y)
			if err != nil {
				return false
			}
			backward, err := statevector.Amplitude(seq, n, y, x)
			if err != nil {
				return false
			}
			return closeEnough(forward, backward, 1e-9)
		},
		gen.Int64Range(0, 1<<30),
		gen.IntRange(1, 4),
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestPruningSoundness checks property #8 for path-integral and Savitch.
func TestPruningSoundness(t *testing.T) {
	properties := gopter.NewProperties(gopterParams())

	properties.Property("path-integral pruned matches unpruned", prop.ForAll(
		func(seed int64, n, gates int) bool {
			src := randomCircuit(seed, n, gates)
			seq, err := parse(src, n)
			if err != nil {
				return false
			}
			r := rand.New(rand.NewSource(seed + 4))
			x := r.Intn(1 << uint(n))
			y := r.Intn(1 << uint(n))

			pruned, err := pathintegral.Amplitude(seq, n, x, y, seq.CountChanges())
			if err != nil {
				return false
			}
			unpruned, err := pathintegral.AmplitudeUnpruned(seq, n, x, y)
			if err != nil {
				return false
			}
			return closeEnough(pruned, unpruned, 1e-12)
		},
		gen.Int64Range(0, 1<<30),
		gen.IntRange(1, 4),
		gen.IntRange(0, 20),
	))

	properties.Property("savitch pruned matches unpruned", prop.ForAll(
		func(seed int64, n, gates int) bool {
			src := randomCircuit(seed, n, gates)
			seq, err := parse(src, n)
			if err != nil {
				return false
			}
			r := rand.New(rand.NewSource(seed + 5))
			x := r.Intn(1 << uint(n))
			y := r.Intn(1 << uint(n))

			pruned, err := savitch.AmplitudeWithOptions(seq, n, x, y, savitch.Options{Pruning: true})
			if err != nil {
				return false
			}
			unpruned, err := savitch.AmplitudeWithOptions(seq, n, x, y, savitch.Options{Pruning: false})
			if err != nil {
				return false
			}
			return closeEnough(pruned, unpruned, 1e-12)
		},
		gen.Int64Range(0, 1<<30),
		gen.IntRange(1, 4),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func writeRealGate(b *strings.Builder, r *rand.Rand, n int) {
	if n >= 3 && r.Intn(2) == 0 {
		qs := r.Perm(n)[:3]
		b.WriteString("0 t ")
		for _, q := range qs {
			b.WriteByte(digit(q))
			b.WriteByte(' ')
		}
		b.WriteString("\n")
		return
	}
	b.WriteString("0 h ")
	b.WriteByte(digit(r.Intn(n)))
	b.WriteByte('\n')
}

func closeEnough(a, b complex128, tol float64) bool {
	d := a - b
	return real(d)*real(d)+imag(d)*imag(d) <= tol*tol
}
