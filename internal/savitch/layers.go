// Package savitch implements the layer-bisection simulator: a greedy
// partition of the circuit into qubit-disjoint layers, recursively bisected
// with reachability-pruned intermediate-state sums (spec.md §4.5).
package savitch

import (
	"fmt"

	"qampsim/internal/bitalgebra"
	"qampsim/internal/gatestream"
)

// LayerLimit reports a layer decomposition exceeding an implementation cap.
type LayerLimit struct {
	Layers int
	Cap    int
}

func (e *LayerLimit) Error() string {
	return fmt.Sprintf("savitch: layer decomposition has %d layers, exceeding the cap of %d", e.Layers, e.Cap)
}

// DefaultLayerCap bounds the number of layers a decomposition may produce.
const DefaultLayerCap = 1 << 14

// Layers is a greedy partition of a gate sequence into layers, each
// touching any given qubit at most once (including gate controls).
type Layers struct {
	bounds  []int
	records []gatestream.Record
}

// Count returns the number of layers L.
func (l *Layers) Count() int { return len(l.bounds) - 1 }

// Width returns the number of gate records in layer i.
func (l *Layers) Width(i int) int { return l.bounds[i+1] - l.bounds[i] }

// GateSpan returns the number of gate records spanning layers [lo,hi].
func (l *Layers) GateSpan(lo, hi int) int { return l.bounds[hi+1] - l.bounds[lo] }

// Gates returns the gate records belonging to layer i, in order.
func (l *Layers) Gates(i int) []gatestream.Record {
	return l.records[l.bounds[i]:l.bounds[i+1]]
}

// BuildLayers scans records left to right, closing the current layer and
// starting a new one whenever a gate references a qubit already touched in
// it. The result satisfies: no qubit is touched twice within one layer, and
// concatenating layer spans reproduces records in order.
func BuildLayers(records []gatestream.Record, n, layerCap int) (*Layers, error) {
	bounds := []int{0}
	var touched uint64
	for i, rec := range records {
		t, err := touchSet(rec, n)
		if err != nil {
			return nil, err
		}
		if touched&t != 0 {
			bounds = append(bounds, i)
			touched = 0
		}
		touched |= t
	}
	bounds = append(bounds, len(records))

	l := len(bounds) - 1
	if l > layerCap {
		return nil, &LayerLimit{Layers: l, Cap: layerCap}
	}
	return &Layers{bounds: bounds, records: records}, nil
}

func touchSet(rec gatestream.Record, n int) (uint64, error) {
	bit := func(q int) uint64 { return uint64(1) << uint(bitalgebra.BitPos(q, n)) }
	switch rec.Kind {
	case gatestream.Hadamard:
		return bit(rec.Target), nil
	case gatestream.Toffoli:
		return bit(rec.Control1) | bit(rec.Control2) | bit(rec.Target), nil
	case gatestream.PhasePositive, gatestream.PhaseNegative:
		m := bit(rec.Target)
		if rec.Controlled {
			m |= bit(rec.Control1)
		}
		return m, nil
	default:
		return 0, &gatestream.UnsupportedGate{Kind: rec.Kind, Msg: "unknown gate kind"}
	}
}
