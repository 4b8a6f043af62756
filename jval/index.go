package jval

// Adaptive index overlay (spec §4.3). Arrays and objects are naturally
// ordered sequences — O(n) positional/key lookup. Under repeated
// random access on a large container this is quadratic overall, so each
// container tracks an access counter and, once it crosses
// JITAccessLimit, materializes an O(1) overlay (a contiguous table for
// arrays, a hash table for objects). The overlay is a pure cache: its
// presence is not observable through the public API except through
// performance and the duplicate-key tie-break documented on Object.

const (
	// JITSizeLimit is the minimum container size before access is counted
	// toward overlay promotion at all.
	JITSizeLimit = 30
	// JITAccessLimit is the cumulative access cost that triggers building
	// the overlay.
	JITAccessLimit = 1000
)

// Array is the ordered-sequence container backing a KindArray Value.
type Array struct {
	items []*Value

	overlay       []*Value // non-nil once built
	accessCounter int
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.items) }

// Items returns the elements in insertion order. The returned slice
// must not be mutated by the caller.
func (a *Array) Items() []*Value { return a.items }

// Get performs positional access, building the overlay once the access
// cost crosses JITAccessLimit on a container of at least JITSizeLimit
// elements.
func (a *Array) Get(i int) (*Value, bool) {
	if i < 0 || i >= len(a.items) {
		return nil, false
	}
	if a.overlay != nil {
		return a.overlay[i], true
	}
	if len(a.items) >= JITSizeLimit {
		a.accessCounter++
		if a.accessCounter >= JITAccessLimit {
			a.buildOverlay()
			return a.overlay[i], true
		}
	}
	for idx, v := range a.items {
		if idx == i {
			return v, true
		}
	}
	return nil, false // unreachable: bounds already checked
}

func (a *Array) buildOverlay() {
	a.overlay = make([]*Value, len(a.items))
	copy(a.overlay, a.items)
}

// Promoted reports whether the random-access overlay has been built.
// This is a diagnostic surface for benchmarking/testing (jbench); it
// has no effect on the semantics of Get.
func (a *Array) Promoted() bool { return a.overlay != nil }

func (a *Array) invalidate() {
	a.overlay = nil
	a.accessCounter = 0
}

// field is one key/value pair in an Object's sequential field list.
type field struct {
	key []byte
	val *Value
}

// Object is the ordered key/value container backing a KindObject Value.
type Object struct {
	fields []field

	overlay       map[string]*Value // non-nil once built
	accessCounter int
}

// Len returns the number of fields, including any duplicate keys the
// sequential view retains.
func (o *Object) Len() int { return len(o.fields) }

// Keys returns the field keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.fields))
	for i, f := range o.fields {
		keys[i] = string(f.key)
	}
	return keys
}

// Fields calls fn for each field in insertion order.
func (o *Object) Fields(fn func(key string, v *Value)) {
	for _, f := range o.fields {
		fn(string(f.key), f.val)
	}
}

// Get performs keyed access, building the hash-table overlay once the
// access cost crosses JITAccessLimit on a container of at least
// JITSizeLimit fields.
//
// If the overlay has been built and the object contains duplicate keys,
// the overlay returns the last-inserted value for that key, while the
// sequential view (Fields/Keys) still lists every occurrence in
// insertion order — see spec §4.3.
func (o *Object) Get(key string) (*Value, bool) {
	if o.overlay != nil {
		v, ok := o.overlay[key]
		return v, ok
	}

	promote := len(o.fields) >= JITSizeLimit
	for _, f := range o.fields {
		if promote {
			o.accessCounter++
			if o.accessCounter >= JITAccessLimit {
				o.buildOverlay()
				v, ok := o.overlay[key]
				return v, ok
			}
		}
		if string(f.key) == key {
			return f.val, true
		}
	}
	return nil, false
}

func (o *Object) buildOverlay() {
	o.overlay = make(map[string]*Value, len(o.fields))
	for _, f := range o.fields {
		o.overlay[string(f.key)] = f.val // later duplicates replace earlier ones
	}
}

// Promoted reports whether the hash-table overlay has been built. This
// is a diagnostic surface for benchmarking/testing (jbench); it has no
// effect on the semantics of Get.
func (o *Object) Promoted() bool { return o.overlay != nil }

func (o *Object) invalidate() {
	o.overlay = nil
	o.accessCounter = 0
}
