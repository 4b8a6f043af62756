package jbench

import (
	"testing"

	"github.com/lattice-substrate/gojson/jval"
)

func TestRunLaneArrayBelowSizeLimitNeverPromotes(t *testing.T) {
	w := &Workload{Name: "small-array", Kind: ArrayContainer, Size: 10, Accesses: RepeatedAccesses(0, 5000)}
	lane, err := runLane(w, 0)
	if err != nil {
		t.Fatalf("runLane: %v", err)
	}
	if lane.FinalPromoted {
		t.Fatalf("container below JITSizeLimit must never promote")
	}
	if lane.PromotedAtStep != -1 {
		t.Fatalf("expected no promotion step, got %d", lane.PromotedAtStep)
	}
}

func TestRunLaneArrayPromotesUnderRepeatedAccess(t *testing.T) {
	w := &Workload{Name: "big-array", Kind: ArrayContainer, Size: jval.JITSizeLimit + 1, Accesses: RepeatedAccesses(0, jval.JITAccessLimit+10)}
	lane, err := runLane(w, 0)
	if err != nil {
		t.Fatalf("runLane: %v", err)
	}
	if !lane.FinalPromoted {
		t.Fatalf("expected promotion once access count crosses JITAccessLimit")
	}
	if lane.PromotedAtStep < 0 {
		t.Fatalf("expected a recorded promotion step")
	}
}

func TestRunLaneObjectPromotesUnderRepeatedAccess(t *testing.T) {
	w := &Workload{Name: "big-object", Kind: ObjectContainer, Size: jval.JITSizeLimit + 1, Accesses: RepeatedAccesses(0, jval.JITAccessLimit+10)}
	lane, err := runLane(w, 0)
	if err != nil {
		t.Fatalf("runLane: %v", err)
	}
	if !lane.FinalPromoted {
		t.Fatalf("expected object overlay promotion")
	}
}

func TestRunLaneUnknownAccessIsError(t *testing.T) {
	w := &Workload{Name: "oob", Kind: ArrayContainer, Size: 5, Accesses: []int{10}}
	if _, err := runLane(w, 0); err == nil {
		t.Fatalf("expected out-of-range access error")
	}
}

func TestReplayDetectsConsistentDigestsAcrossLanes(t *testing.T) {
	w := &Workload{Name: "repro", Kind: ArrayContainer, Size: jval.JITSizeLimit + 5, Accesses: SequentialAccesses(jval.JITSizeLimit + 5)}
	ev, err := Replay(w, 4)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(ev.Lanes) != 4 {
		t.Fatalf("expected 4 lanes, got %d", len(ev.Lanes))
	}
	if ev.AggregateDigest == "" {
		t.Fatalf("expected a non-empty aggregate digest")
	}
	if ev.SchemaVersion != EvidenceSchemaVersion {
		t.Fatalf("schema version mismatch")
	}
}

func TestReplayRejectsZeroLanes(t *testing.T) {
	w := &Workload{Name: "x", Kind: ArrayContainer, Size: 1, Accesses: []int{0}}
	if _, err := Replay(w, 0); err == nil {
		t.Fatalf("expected error for lanes < 1")
	}
}

func TestPromotionStepAgreesAcrossLanes(t *testing.T) {
	w := &Workload{Name: "promotion-agreement", Kind: ArrayContainer, Size: jval.JITSizeLimit + 1, Accesses: RepeatedAccesses(0, jval.JITAccessLimit+1)}
	ev, err := Replay(w, 3)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	step, err := ev.PromotionStep()
	if err != nil {
		t.Fatalf("PromotionStep: %v", err)
	}
	if step != jval.JITAccessLimit-1 {
		t.Fatalf("expected promotion at step %d (0-based), got %d", jval.JITAccessLimit-1, step)
	}
}

func TestWorkloadSHA256Deterministic(t *testing.T) {
	w := &Workload{Name: "fingerprint", Kind: ArrayContainer, Size: 3, Accesses: []int{0, 1, 2}}
	a, err := w.SHA256()
	if err != nil {
		t.Fatalf("SHA256: %v", err)
	}
	b, err := w.SHA256()
	if err != nil {
		t.Fatalf("SHA256: %v", err)
	}
	if a != b {
		t.Fatalf("expected deterministic fingerprint, got %q and %q", a, b)
	}
}
