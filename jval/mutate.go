package jval

// Array returns the array container backing v, or nil if v is not a
// KindArray value.
func (v *Value) Array() *Array {
	if v == nil || v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Object returns the object container backing v, or nil if v is not a
// KindObject value.
func (v *Value) Object() *Object {
	if v == nil || v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Append adds child to the end of the array, transferring ownership of
// child to the array. Any mutation discards the index overlay (spec
// §3 invariant 2, §4.3).
func (a *Array) Append(child *Value) {
	a.items = append(a.items, child)
	a.invalidate()
}

// AppendField appends a key/value pair to the object's sequential field
// list without checking for an existing key, permitting duplicates.
// This is the low-level primitive the decoder uses (spec §3: "the
// decoder itself does not deduplicate"); Put is the deduplicating
// mutation API.
func (o *Object) AppendField(key string, v *Value) {
	o.fields = append(o.fields, field{key: []byte(key), val: v})
	o.invalidate()
}

// Put sets key to v, replacing the first existing occurrence in place
// if key is already present, or appending a new field otherwise. This
// is the public upsert mutation API (spec §6).
func (o *Object) Put(key string, v *Value) {
	for i := range o.fields {
		if string(o.fields[i].key) == key {
			o.fields[i].val = v
			o.invalidate()
			return
		}
	}
	o.AppendField(key, v)
}

// Pop removes the first field with the given key, returning its value
// and whether a field was found.
func (o *Object) Pop(key string) (*Value, bool) {
	for i := range o.fields {
		if string(o.fields[i].key) == key {
			v := o.fields[i].val
			o.fields = append(o.fields[:i], o.fields[i+1:]...)
			o.invalidate()
			return v, true
		}
	}
	return nil, false
}
