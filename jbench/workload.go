// Package jbench replays deterministic access workloads against jval
// containers to observe the adaptive random-access overlay (spec
// §4.3): whether and when a container promotes from linear scan to
// O(1) lookup, and whether that promotion point is reproducible across
// independent replays of the same workload. It is a diagnostic/evidence
// harness, not a timing benchmark — replay cost is counted in accesses,
// never wall-clock, so results are exact and reproducible.
package jbench

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/lattice-substrate/gojson/jenc"
	"github.com/lattice-substrate/gojson/jval"
)

// ContainerKind selects which jval container a Workload drives.
type ContainerKind string

const (
	ArrayContainer  ContainerKind = "array"
	ObjectContainer ContainerKind = "object"
)

// Workload is a reproducible access pattern: build a container of Size
// elements, then issue the Accesses sequence of Get calls against it in
// order.
type Workload struct {
	Name      string        `json:"name"`
	Kind      ContainerKind `json:"kind"`
	Size      int           `json:"size"`
	Accesses  []int         `json:"accesses"`
	seededKey func(i int) string
}

// SequentialAccesses returns an access sequence that visits every
// element of a Size-element container once, in order.
func SequentialAccesses(size int) []int {
	out := make([]int, size)
	for i := range out {
		out[i] = i
	}
	return out
}

// RepeatedAccesses returns an access sequence that visits `index`
// `count` times, the workload shape that forces overlay promotion on a
// large-enough container (every access lands on the same slow linear
// scan path) the fastest.
func RepeatedAccesses(index, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = index
	}
	return out
}

// SHA256 returns the hex digest of the workload's canonical JSON
// encoding, used as the evidence bundle's workload fingerprint.
func (w *Workload) SHA256() (string, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("jbench: marshal workload: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (w *Workload) keyFor(i int) string {
	if w.seededKey != nil {
		return w.seededKey(i)
	}
	return fmt.Sprintf("k%d", i)
}

// buildArray constructs a fresh *jval.Value array of w.Size integer
// elements (value i at index i).
func (w *Workload) buildArray() *jval.Value {
	v := jval.NewArray()
	a := v.Array()
	for i := 0; i < w.Size; i++ {
		a.Append(jval.Integer(int64(i)))
	}
	return v
}

// buildObject constructs a fresh *jval.Value object of w.Size fields
// keyed by w.keyFor(i), each holding Integer(i).
func (w *Workload) buildObject() *jval.Value {
	v := jval.NewObject()
	o := v.Object()
	for i := 0; i < w.Size; i++ {
		o.AppendField(w.keyFor(i), jval.Integer(int64(i)))
	}
	return v
}

// Lane is one independent replay of a Workload.
type Lane struct {
	Index          int    `json:"index"`
	AccessCount    int    `json:"access_count"`
	PromotedAtStep int    `json:"promoted_at_step"` // -1 if never promoted
	FinalPromoted  bool   `json:"final_promoted"`
	ResultDigest   string `json:"result_digest"`
}

// runLane replays w against a freshly built container and records
// where, if ever, the overlay was promoted.
func runLane(w *Workload, laneIndex int) (*Lane, error) {
	lane := &Lane{Index: laneIndex, PromotedAtStep: -1}

	var digest []byte
	switch w.Kind {
	case ArrayContainer:
		v := w.buildArray()
		a := v.Array()
		for step, idx := range w.Accesses {
			val, ok := a.Get(idx)
			if !ok {
				return nil, fmt.Errorf("jbench: lane %d: access %d out of range for size %d", laneIndex, idx, w.Size)
			}
			digest = append(digest, jenc.Compact(val)...)
			digest = append(digest, ',')
			lane.AccessCount++
			if lane.PromotedAtStep < 0 && a.Promoted() {
				lane.PromotedAtStep = step
			}
		}
		lane.FinalPromoted = a.Promoted()
	case ObjectContainer:
		v := w.buildObject()
		o := v.Object()
		for step, idx := range w.Accesses {
			key := w.keyFor(idx)
			val, ok := o.Get(key)
			if !ok {
				return nil, fmt.Errorf("jbench: lane %d: access %q not present", laneIndex, key)
			}
			digest = append(digest, jenc.Compact(val)...)
			digest = append(digest, ',')
			lane.AccessCount++
			if lane.PromotedAtStep < 0 && o.Promoted() {
				lane.PromotedAtStep = step
			}
		}
		lane.FinalPromoted = o.Promoted()
	default:
		return nil, fmt.Errorf("jbench: unknown container kind %q", w.Kind)
	}

	sum := sha256.Sum256(digest)
	lane.ResultDigest = hex.EncodeToString(sum[:])
	return lane, nil
}
