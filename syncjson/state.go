package syncjson

type frameKind uint8

const (
	rootFrame frameKind = iota
	objectFrame
	arrayFrame
)

// frame is one open container. The bottom frame is the root and is never
// popped.
type frame struct {
	kind     frameKind
	needsSep bool // a value was written at this level
	wrapped  bool // array inside {"$id": n, "$values": [...]}
}

// stack tracks open containers the way the writer emitted them.
type stack struct {
	frames   []frame
	maxDepth int
}

func newStack() stack {
	return stack{frames: []frame{{kind: rootFrame}}}
}

func (s *stack) push(f frame) {
	s.frames = append(s.frames, f)
	if d := s.depth(); d > s.maxDepth {
		s.maxDepth = d
	}
}

func (s *stack) pop() frame {
	n := len(s.frames)
	f := s.frames[n-1]
	s.frames = s.frames[:n-1]
	return f
}

func (s *stack) current() *frame {
	return &s.frames[len(s.frames)-1]
}

// depth returns the number of open containers (0 = top level).
func (s *stack) depth() int {
	return len(s.frames) - 1
}

func (s *stack) insideList() bool {
	return s.current().kind == arrayFrame
}
