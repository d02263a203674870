// Package orchestrator is the thin dispatcher over the three simulator
// kernels: it carries no simulation logic of its own, only kernel
// selection and parameter derivation (spec.md §4.6).
package orchestrator

import (
	"fmt"

	"qampsim/internal/bitalgebra"
	"qampsim/internal/gatestream"
	"qampsim/internal/pathintegral"
	"qampsim/internal/savitch"
	"qampsim/internal/statevector"
)

// Kernel names one of the three peer simulation strategies.
type Kernel int

const (
	StateVector Kernel = iota
	PathIntegral
	Savitch
)

func (k Kernel) String() string {
	switch k {
	case StateVector:
		return "state-vector"
	case PathIntegral:
		return "path-integral"
	case Savitch:
		return "savitch"
	default:
		return fmt.Sprintf("kernel(%d)", int(k))
	}
}

// ErrUnknownKernel is returned by Run for a Kernel value outside the three
// known strategies.
type ErrUnknownKernel struct {
	Kernel Kernel
}

func (e *ErrUnknownKernel) Error() string {
	return fmt.Sprintf("orchestrator: unknown kernel %s", e.Kernel)
}

// Options configures a Run call. Zero values select defaults: a
// NonPhaseGateCount of zero is derived from the circuit, and zero
// MemoryBudgetBytes/LayerCap select the kernels' default limits (see Run).
type Options struct {
	// NonPhaseGateCount seeds the path-integral pruning budget. Zero means
	// derive it from the sequence via CountChanges.
	NonPhaseGateCount int
	// MemoryBudgetBytes bounds the state-vector amplitude table. Zero means
	// statevector.DefaultMemoryBudgetBytes.
	MemoryBudgetBytes uint64
	// LayerCap bounds Savitch's layer decomposition. Zero means
	// savitch.DefaultLayerCap.
	LayerCap int
	// DisablePruning runs path-integral/Savitch without reachability
	// pruning, for cross-checking property #8.
	DisablePruning bool
	// ReverseEnd reverses the end state's qubit order before dispatch to
	// any kernel, matching QFT-style circuits that deliver their result
	// bit-reversed.
	ReverseEnd bool
}

// Run selects a kernel, supplies its derived parameters, and returns
// ⟨y|C|x⟩. It performs no validation of its own beyond dispatch: gate-level
// errors surface from the chosen kernel unchanged.
func Run(kernel Kernel, seq *gatestream.Sequence, n, x, y int, opts Options) (complex128, error) {
	if opts.ReverseEnd {
		y = int(bitalgebra.ReverseBits(uint64(y), n))
	}

	switch kernel {
	case StateVector:
		budget := opts.MemoryBudgetBytes
		if budget == 0 {
			budget = statevector.DefaultMemoryBudgetBytes
		}
		return statevector.AmplitudeWithBudget(seq, n, x, y, budget)

	case PathIntegral:
		if opts.DisablePruning {
			return pathintegral.AmplitudeUnpruned(seq, n, x, y)
		}
		count := opts.NonPhaseGateCount
		if count == 0 {
			count = seq.CountChanges()
		}
		return pathintegral.Amplitude(seq, n, x, y, count)

	case Savitch:
		return savitch.AmplitudeWithOptions(seq, n, x, y, savitch.Options{
			LayerCap: opts.LayerCap,
			Pruning:  !opts.DisablePruning,
		})

	default:
		return 0, &ErrUnknownKernel{Kernel: kernel}
	}
}
