package octree

// MortonCode interleaves the bits of a cell's x, y and z coordinates.
type MortonCode uint64

// EncodeMorton3D encodes a 3D cell coordinate to a Morton code
func EncodeMorton3D(x, y, z uint32) MortonCode {
	return MortonCode(splitBy3(x) | (splitBy3(y) << 1) | (splitBy3(z) << 2))
}

// splitBy3 spreads the low 21 bits of v so that two zero bits follow each one
func splitBy3(v uint32) uint64 {
	x := uint64(v) & 0x1fffff
	x = (x | x<<32) & 0x1f00000000ffff
	x = (x | x<<16) & 0x1f0000ff0000ff
	x = (x | x<<8) & 0x100f00f00f00f00f
	x = (x | x<<4) & 0x10c30c30c30c30c3
	x = (x | x<<2) & 0x1249249249249249
	return x
}
