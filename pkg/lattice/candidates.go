package lattice

import (
	"cmp"
	"slices"
)

// Candidate is one alternative of a dimension: a probability in [0,1] and an opaque payload
type Candidate[T any] struct {
	Probability float64
	Payload     T
}

// WeightedList holds the candidates of a single dimension sorted by descending probability.
// Candidates with equal probability keep their declaration order. The list is never mutated after construction.
type WeightedList[T any] struct {
	candidates []Candidate[T]
}

func NewWeightedList[T any](candidates []Candidate[T]) *WeightedList[T] {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b Candidate[T]) int {
		return cmp.Compare(b.Probability, a.Probability)
	})
	return &WeightedList[T]{candidates: sorted}
}

func (list *WeightedList[T]) Len() int {
	return len(list.candidates)
}

func (list *WeightedList[T]) At(index int) Candidate[T] {
	return list.candidates[index]
}

func (list *WeightedList[T]) Has(index int) bool {
	return index >= 0 && index < len(list.candidates)
}

func (list *WeightedList[T]) Probability(index int) float64 {
	return list.candidates[index].Probability
}
