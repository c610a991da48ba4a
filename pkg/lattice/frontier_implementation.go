package lattice

import (
	"slices"
)

type frontierImplementation struct {
	dimensions []Dimension
	queue      *Queue[Vector]
	seen       map[string]struct{} // Canonical identities of every vector ever inserted (never cleared)
}

func (frontier *frontierImplementation) Peek() (Vector, bool) {
	return frontier.queue.Peek()
}

func (frontier *frontierImplementation) Pop() (Vector, bool) {
	vector, ok := frontier.queue.Pop()
	if !ok {
		return Vector{}, false
	}

	// Insert every neighbour obtained by incrementing a single coordinate
	for i, dimension := range frontier.dimensions {
		next := vector.Coordinates[i] + 1
		if !dimension.Has(next) {
			continue
		}
		coordinates := slices.Clone(vector.Coordinates)
		coordinates[i] = next
		frontier.insert(coordinates)
	}

	return vector, true
}

func (frontier *frontierImplementation) Exhausted() bool {
	return frontier.queue.Len() == 0
}

func (frontier *frontierImplementation) Len() int {
	return frontier.queue.Len()
}

func (frontier *frontierImplementation) Seen() int {
	return len(frontier.seen)
}

// seed inserts the all-zero vector, unless some dimension is empty (in which case the space is empty)
func (frontier *frontierImplementation) seed() {
	for _, dimension := range frontier.dimensions {
		if !dimension.Has(0) {
			return
		}
	}
	frontier.insert(make([]int, len(frontier.dimensions)))
}

func (frontier *frontierImplementation) insert(coordinates []int) {
	key := canonicalKey(coordinates)
	if _, ok := frontier.seen[key]; ok {
		return
	}
	frontier.seen[key] = struct{}{}
	frontier.queue.Push(Vector{
		Coordinates: coordinates,
		Probability: frontier.probability(coordinates),
	})
}

// probability folds the product of the selected candidates' probabilities from left to right
func (frontier *frontierImplementation) probability(coordinates []int) float64 {
	probability := 1.0
	for i, coordinate := range coordinates {
		probability *= frontier.dimensions[i].Probability(coordinate)
	}
	return probability
}
