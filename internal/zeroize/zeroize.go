// Package zeroize overwrites sensitive byte slices before they are
// dropped, bounding how long key material lingers in process memory.
package zeroize

// Bytes overwrites b with zeros in place. Safe to call on a nil or empty slice.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// All zeros every slice in bs, in order.
func All(bs ...[]byte) {
	for _, b := range bs {
		Bytes(b)
	}
}
