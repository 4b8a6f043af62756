package jval

// Tracing plugin surface (spec §6): a host tracing system can register
// callbacks here to render Values in trace lines without jval depending
// on any particular tracing library. No host is wired up by default —
// TraceHost is nil until something sets it, and nothing in this module
// calls TraceValue, the one function that calls through it.

// TraceHost holds the callbacks a host tracing system provides. Only
// one host can be registered at a time; callers coordinate their own
// registration order.
var TraceHost *TraceCallbacks

// TraceCallbacks is the plugin surface a host tracing system implements.
type TraceCallbacks struct {
	// EncodeUpTo renders v as JSON truncated to at most n bytes, for
	// embedding in a trace line.
	EncodeUpTo func(v *Value, n int) string
	// KindName returns the kind of v as a string, e.g. for a trace
	// line's type column.
	KindName func(v *Value) string
	// SetStickyLimit adjusts the default truncation length used by
	// EncodeUpTo when a trace line does not specify one explicitly.
	SetStickyLimit func(n int)
}

// traceRing is a small fixed-slot ring buffer so that up to four trace
// values can coexist on one trace line without clobbering each other.
const traceRingSlots = 4

type traceSlot struct {
	used bool
	text string
}

type traceRing struct {
	slots [traceRingSlots]traceSlot
	next  int
}

// Put stores text in the next ring slot and returns the slot index.
func (r *traceRing) Put(text string) int {
	idx := r.next
	r.slots[idx] = traceSlot{used: true, text: text}
	r.next = (r.next + 1) % traceRingSlots
	return idx
}

// At returns the text stored at slot idx, if any.
func (r *traceRing) At(idx int) (string, bool) {
	if idx < 0 || idx >= traceRingSlots || !r.slots[idx].used {
		return "", false
	}
	return r.slots[idx].text, true
}

// defaultTraceRing is the process-wide ring buffer backing trace
// rendering when no host-specific buffering is supplied. This is the
// only process-wide mutable state in jval (spec §5).
var defaultTraceRing traceRing

// TraceValue renders v through the registered TraceHost (if any) and
// stashes the rendering in the process-wide trace ring, returning the
// slot index. Returns -1 if no host is registered.
func TraceValue(v *Value, maxBytes int) int {
	if TraceHost == nil || TraceHost.EncodeUpTo == nil {
		return -1
	}
	return defaultTraceRing.Put(TraceHost.EncodeUpTo(v, maxBytes))
}
