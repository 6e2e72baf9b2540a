package math32

// Bitmap is a growable set of uint32 values, one bit per value.
type Bitmap []uint64

// NewBitmap returns a bitmap sized to hold values in [0, n) without growing.
func NewBitmap(n uint32) Bitmap {
	return make(Bitmap, (int(n)+63)>>6)
}

// Set sets the bit x in the bitmap and grows it if necessary.
func (dst *Bitmap) Set(x uint32) {
	blkAt := int(x >> 6)
	if blkAt >= len(*dst) {
		dst.grow(blkAt)
	}
	(*dst)[blkAt] |= 1 << (x & 63)
}

// TestAndSet sets the bit x and reports whether it was already set.
func (dst *Bitmap) TestAndSet(x uint32) bool {
	if dst.Contains(x) {
		return true
	}
	dst.Set(x)
	return false
}

// Contains checks whether a value is contained in the bitmap or not.
func (dst Bitmap) Contains(x uint32) bool {
	blkAt := int(x >> 6)
	if blkAt >= len(dst) {
		return false
	}
	return dst[blkAt]&(1<<(x&63)) != 0
}

// grow extends the bitmap so that block blkAt is addressable.
func (dst *Bitmap) grow(blkAt int) {
	if cap(*dst) > blkAt {
		*dst = (*dst)[:blkAt+1]
		return
	}
	old := *dst
	*dst = make(Bitmap, blkAt+1, max(2*cap(old), blkAt+1))
	copy(*dst, old)
}
