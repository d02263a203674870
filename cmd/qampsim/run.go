package main

import (
	"fmt"
	"math/cmplx"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"qampsim/internal/gatestream"
	"qampsim/internal/logging"
	"qampsim/internal/orchestrator"
)

var (
	runAlgorithm     string
	runQubits        int
	runStart         int
	runEnd           int
	runCircuitPath   string
	runNonPhaseGates int
	runReverseEnd    bool
	runNoPruning     bool
	runMemoryBytes   uint64
	runLayerCap      int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute <y|C|x> for a gate stream, or compare all three kernels",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runAlgorithm, "algorithm", "statevector", "statevector|pathintegral|savitch|compare")
	runCmd.Flags().IntVar(&runQubits, "qubits", 0, "number of qubits")
	runCmd.Flags().IntVar(&runStart, "start", 0, "initial basis state x")
	runCmd.Flags().IntVar(&runEnd, "end", 0, "final basis state y")
	runCmd.Flags().StringVar(&runCircuitPath, "circuit", "", "path to gate stream file, or \"-\" for stdin")
	runCmd.Flags().IntVar(&runNonPhaseGates, "non-phase-gates", 0, "path-integral pruning budget (0 = derive from the circuit)")
	runCmd.Flags().BoolVar(&runReverseEnd, "reverse-end", false, "reverse the end state's qubit order before dispatch (QFT convention)")
	runCmd.Flags().BoolVar(&runNoPruning, "no-pruning", false, "disable reachability pruning (path-integral, savitch)")
	runCmd.Flags().Uint64Var(&runMemoryBytes, "memory-budget", 0, "state-vector amplitude table budget in bytes (0 = default)")
	runCmd.Flags().IntVar(&runLayerCap, "layer-cap", 0, "savitch layer count cap (0 = default)")
	_ = runCmd.MarkFlagRequired("qubits")
	_ = runCmd.MarkFlagRequired("circuit")
	rootCmd.AddCommand(runCmd)
}

func parseAlgorithm(name string) (orchestrator.Kernel, bool, error) {
	switch name {
	case "statevector":
		return orchestrator.StateVector, false, nil
	case "pathintegral":
		return orchestrator.PathIntegral, false, nil
	case "savitch":
		return orchestrator.Savitch, false, nil
	case "compare":
		return 0, true, nil
	default:
		return 0, false, fmt.Errorf("unknown algorithm %q", name)
	}
}

func openCircuit(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.Logger()

	kernel, compare, err := parseAlgorithm(runAlgorithm)
	if err != nil {
		return err
	}

	src, err := openCircuit(runCircuitPath)
	if err != nil {
		return err
	}
	if src != os.Stdin {
		defer src.Close()
	}

	seq, err := gatestream.Parse(src, runQubits)
	if err != nil {
		return err
	}
	log.Debug().Int("records", seq.Len()).Str("algorithm", runAlgorithm).Msg("parsed gate stream")

	opts := orchestrator.Options{
		NonPhaseGateCount: runNonPhaseGates,
		DisablePruning:    runNoPruning,
		MemoryBudgetBytes: runMemoryBytes,
		LayerCap:          runLayerCap,
		ReverseEnd:        runReverseEnd,
	}

	if compare {
		return runCompare(seq, opts)
	}

	val, err := orchestrator.Run(kernel, seq, runQubits, runStart, runEnd, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%.10f%+.10fi\n", real(val), imag(val))
	return nil
}

// runCompare runs all three kernels against the same parsed stream and
// prints a lipgloss table of amplitude, magnitude, phase, and wall-clock
// duration per kernel — the CLI's rendering of the teaching/benchmarking
// comparator this package exists for.
func runCompare(seq *gatestream.Sequence, opts orchestrator.Options) error {
	kernels := []orchestrator.Kernel{orchestrator.StateVector, orchestrator.PathIntegral, orchestrator.Savitch}
	rows := make([][]string, 0, len(kernels))

	for _, k := range kernels {
		start := time.Now()
		val, err := orchestrator.Run(k, seq, runQubits, runStart, runEnd, opts)
		elapsed := time.Since(start)
		if err != nil {
			rows = append(rows, []string{k.String(), err.Error(), "", "", elapsed.String()})
			continue
		}
		rows = append(rows, []string{
			k.String(),
			fmt.Sprintf("%.10f%+.10fi", real(val), imag(val)),
			fmt.Sprintf("%.10f", cmplx.Abs(val)),
			fmt.Sprintf("%.10f", cmplx.Phase(val)),
			elapsed.String(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))).
		Headers("kernel", "amplitude", "magnitude", "phase (rad)", "duration").
		Rows(rows...)

	fmt.Println(t)
	return nil
}
