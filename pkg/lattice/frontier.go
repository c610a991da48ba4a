package lattice

// Dimension is one axis of a product space. Candidates must be exposed in non-increasing probability order.
// Implementations may grow lazily: Has is the only way to learn whether an index exists and it may compute it on demand.
type Dimension interface {
	// Checks whether the dimension has a candidate at the given index
	Has(index int) bool

	// Returns the probability of the candidate at the given index (only valid if Has(index) holds)
	Probability(index int) float64
}

// Frontier enumerates the coordinate vectors of a product space in non-increasing order of combined probability.
// Every vector of the space is produced exactly once when the frontier is polled to exhaustion.
//
// Example:
//
//	frontier := lattice.NewFrontier(fertility, mortality)
//	for vector, ok := frontier.Pop(); ok; vector, ok = frontier.Pop() {
//		fmt.Println(vector.Coordinates, vector.Probability)
//	}
type Frontier interface {
	// Returns the next vector without removing it; repeated calls before a Pop return the same vector
	Peek() (Vector, bool)

	// Removes the next vector and expands its unexplored neighbours
	Pop() (Vector, bool)

	// Checks whether no vector is left
	Exhausted() bool

	// Returns the number of vectors waiting in the frontier
	Len() int

	// Returns the number of distinct vectors ever inserted into the frontier
	Seen() int
}

func NewFrontier(dimensions ...Dimension) Frontier {
	frontier := &frontierImplementation{
		dimensions: dimensions,
		queue: NewQueue(func(a, b Vector) bool {
			return compareVectors(a, b) < 0
		}),
		seen: make(map[string]struct{}),
	}
	frontier.seed()
	return frontier
}
