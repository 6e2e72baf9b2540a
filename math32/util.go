package math32

import "github.com/chewxy/math32"

// Min returns the minimum of two values.
func Min[T float32 | int32 | uint32](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two values.
func Max[T float32 | int32 | uint32](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Clamp restricts a to [lo, hi].
func Clamp(a, lo, hi float32) float32 {
	return Max(lo, Min(a, hi))
}

// Abs returns the absolute value of a float32.
func Abs(a float32) float32 {
	return math32.Abs(a)
}

// Sqrt returns the square root of a float32.
func Sqrt(a float32) float32 {
	return math32.Sqrt(a)
}

// Inf returns positive infinity if sign >= 0, negative infinity otherwise.
func Inf(sign int) float32 {
	return math32.Inf(sign)
}

// IsNaN reports whether a is not a number.
func IsNaN(a float32) bool {
	return math32.IsNaN(a)
}
