package parse

// SeenLinks tracks which (event, argument) and (mention, identifier)
// pairs have already produced an edge within one document parse. Both
// parsers consult it before recording a link so that repeated
// declarations in the input collapse to a single edge.
type SeenLinks struct {
	pairs map[[2]string]struct{}
}

// NewSeenLinks returns an empty per-document seen-set.
func NewSeenLinks() *SeenLinks {
	return &SeenLinks{pairs: make(map[[2]string]struct{})}
}

// AlreadyLinked reports whether the pair has been marked.
func (s *SeenLinks) AlreadyLinked(headID, tailID string) bool {
	_, ok := s.pairs[[2]string{headID, tailID}]
	return ok
}

// MarkLinked records the pair. Marking an already-marked pair is a no-op.
func (s *SeenLinks) MarkLinked(headID, tailID string) {
	s.pairs[[2]string{headID, tailID}] = struct{}{}
}

// Reset clears the set at a document boundary.
func (s *SeenLinks) Reset() {
	s.pairs = make(map[[2]string]struct{})
}
