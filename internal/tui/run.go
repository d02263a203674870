package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"qampsim/internal/gatestream"
	"qampsim/internal/orchestrator"
)

// compareKernels parses the gate stream once and runs all three kernels
// against it in turn inside a single tea.Cmd, so the UI stays responsive
// while the circuit evaluates and the three results land together as one
// message — each kernel call still owns its state within this one
// goroutine invocation, same as a single-kernel run would.
func compareKernels(src string, n, x, y int) tea.Cmd {
	return func() tea.Msg {
		seq, err := gatestream.Parse(strings.NewReader(src), n)
		if err != nil {
			var results [3]kernelResult
			for i := range results {
				results[i] = kernelResult{done: true, err: err}
			}
			return compareMsg{results: results}
		}

		var results [3]kernelResult
		for i, k := range kernelOrder {
			start := time.Now()
			val, err := orchestrator.Run(k, seq, n, x, y, orchestrator.Options{})
			results[i] = kernelResult{done: true, value: val, err: err, elapsed: time.Since(start)}
		}
		return compareMsg{results: results}
	}
}
