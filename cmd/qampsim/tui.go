package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"qampsim/internal/tui"
)

var (
	tuiCircuitPath string
	tuiQubits      int
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive circuit comparator",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiCircuitPath, "circuit", "", "path to a gate stream file to preload, or \"-\" for stdin")
	tuiCmd.Flags().IntVar(&tuiQubits, "qubits", 0, "number of qubits to preload alongside --circuit")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	m := tui.NewModel()

	if tuiCircuitPath != "" {
		src, err := openCircuit(tuiCircuitPath)
		if err != nil {
			return err
		}
		text, err := io.ReadAll(src)
		if src != os.Stdin {
			src.Close()
		}
		if err != nil {
			return err
		}
		m.LoadCircuit(string(text), tuiQubits)
	}

	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
