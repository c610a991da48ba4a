package lattice

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const keySeparator = ","

// Vector is a coordinate vector of a product space together with its combined probability.
// Coordinate i indexes into the candidates of dimension i.
type Vector struct {
	Coordinates []int
	Probability float64
}

// Key returns the canonical identity of the vector (coordinates joined by a separator)
func (vector Vector) Key() string {
	return canonicalKey(vector.Coordinates)
}

func canonicalKey(coordinates []int) string {
	return strings.Join(lo.Map(coordinates, func(coordinate int, _ int) string { return strconv.Itoa(coordinate) }), keySeparator)
}

// compareVectors orders vectors by descending probability and then by ascending canonical identity
func compareVectors(a, b Vector) int {
	if order := cmp.Compare(b.Probability, a.Probability); order != 0 {
		return order
	}
	return slices.Compare(a.Coordinates, b.Coordinates)
}
