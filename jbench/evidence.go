package jbench

import (
	"fmt"
)

// EvidenceSchemaVersion identifies the shape of Evidence, so a consumer
// can reject a bundle produced by an incompatible future version.
const EvidenceSchemaVersion = "jbench.evidence.v1"

// Evidence is the machine-consumable report produced by Replay: a
// workload fingerprint plus one Lane result per independent replay.
type Evidence struct {
	SchemaVersion string  `json:"schema_version"`
	WorkloadName  string  `json:"workload_name"`
	WorkloadSHA256 string `json:"workload_sha256"`
	Lanes         []Lane  `json:"lanes"`
	// AggregateDigest is the first lane's ResultDigest; Replay verifies
	// every other lane matches it before returning, so a caller reading
	// only the bundle (not re-running Replay) still has a single digest
	// to compare against a previously recorded one.
	AggregateDigest string `json:"aggregate_digest"`
}

// Replay runs the workload independently across `lanes` fresh
// containers and cross-checks that every lane's access trace produced
// an identical ResultDigest — the adaptive overlay is a pure cache, so
// any two replays of the same access sequence against containers built
// the same way must agree byte-for-byte, regardless of whether either
// lane's container happened to promote to the overlay midway through.
// A digest mismatch is reported the same way the teacher's replay
// harness reports cross-node digest drift: as a hard error, not a
// best-effort warning.
func Replay(w *Workload, lanes int) (*Evidence, error) {
	if lanes < 1 {
		return nil, fmt.Errorf("jbench: lanes must be >= 1")
	}
	workloadSHA, err := w.SHA256()
	if err != nil {
		return nil, err
	}

	ev := &Evidence{
		SchemaVersion:  EvidenceSchemaVersion,
		WorkloadName:   w.Name,
		WorkloadSHA256: workloadSHA,
		Lanes:          make([]Lane, 0, lanes),
	}

	for i := 0; i < lanes; i++ {
		lane, err := runLane(w, i)
		if err != nil {
			return nil, err
		}
		ev.Lanes = append(ev.Lanes, *lane)
	}

	baseline := ev.Lanes[0].ResultDigest
	for _, lane := range ev.Lanes[1:] {
		if lane.ResultDigest != baseline {
			return nil, fmt.Errorf("jbench: result digest drift at lane %d: got %s, want %s", lane.Index, lane.ResultDigest, baseline)
		}
	}
	ev.AggregateDigest = baseline

	return ev, nil
}

// PromotionStep reports the access step (0-based) at which the overlay
// was first built across all lanes, or -1 if no lane ever promoted.
// Since every lane replays the identical deterministic sequence against
// identically-built containers, every lane must agree; PromotionStep
// returns an error if they don't.
func (e *Evidence) PromotionStep() (int, error) {
	if len(e.Lanes) == 0 {
		return -1, fmt.Errorf("jbench: evidence has no lanes")
	}
	step := e.Lanes[0].PromotedAtStep
	for _, lane := range e.Lanes[1:] {
		if lane.PromotedAtStep != step {
			return -1, fmt.Errorf("jbench: promotion step drift: lane 0 promoted at %d, lane %d at %d", step, lane.Index, lane.PromotedAtStep)
		}
	}
	return step, nil
}
