package model

import (
	"math"
	"math/bits"
)

// Combination counts saturate at math.MaxUint64 instead of overflowing

func saturatingMul(a, b uint64) uint64 {
	high, low := bits.Mul64(a, b)
	if high != 0 {
		return math.MaxUint64
	}
	return low
}

func saturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// quota returns ceil(total * fraction), where fraction lies in (0, 1]
func quota(total uint64, fraction float64) uint64 {
	if fraction >= 1 {
		return total
	}
	scaled := math.Ceil(float64(total) * fraction)
	if scaled >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(scaled)
}
