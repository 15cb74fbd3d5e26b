package planet

// activeSet is the set of rendered nodes of a face. It iterates in insertion
// order so passes are deterministic.
type activeSet struct {
	nodes []*Node
	index map[*Node]int
	count int
}

func newActiveSet(capacity int) *activeSet {
	return &activeSet{
		nodes: make([]*Node, 0, capacity),
		index: make(map[*Node]int, capacity),
	}
}

func (s *activeSet) add(n *Node) {
	if _, ok := s.index[n]; ok {
		return
	}
	s.index[n] = len(s.nodes)
	s.nodes = append(s.nodes, n)
	s.count++
}

func (s *activeSet) remove(n *Node) {
	i, ok := s.index[n]
	if !ok {
		return
	}
	s.nodes[i] = nil
	delete(s.index, n)
	s.count--
}

func (s *activeSet) contains(n *Node) bool {
	_, ok := s.index[n]
	return ok
}

func (s *activeSet) len() int {
	return s.count
}

// each calls fn for every node in insertion order. Nodes removed during the
// iteration are skipped.
func (s *activeSet) each(fn func(*Node)) {
	for i := 0; i < len(s.nodes); i++ {
		if n := s.nodes[i]; n != nil {
			fn(n)
		}
	}
}
