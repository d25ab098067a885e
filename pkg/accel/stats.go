package accel

// Stats contains statistics about an accelerator's node structure
type Stats struct {
	TotalNodes    int
	LeafNodes     int
	MaxDepth      int
	AvgLeafDepth  float64
	Primitives    int // distinct primitives the structure was built over
	PrimitiveRefs int // primitive references stored in leaves, counting duplicates
}

// Duplication returns the average number of leaves referencing each primitive
func (s Stats) Duplication() float64 {
	if s.Primitives == 0 {
		return 0
	}
	return float64(s.PrimitiveRefs) / float64(s.Primitives)
}

// addLeaf accumulates one leaf at the given depth holding n primitive references
func (s *Stats) addLeaf(depth, n int) {
	s.LeafNodes++
	s.PrimitiveRefs += n
	s.AvgLeafDepth += float64(depth)
}

// visit records a node at the given depth
func (s *Stats) visit(depth int) {
	s.TotalNodes++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
}

// finish converts the accumulated leaf depth sum into an average
func (s *Stats) finish() {
	if s.LeafNodes > 0 {
		s.AvgLeafDepth /= float64(s.LeafNodes)
	}
}
