package pstore

import "sync"

// State is the mapping from particle-type name to its Container, plus
// the simulation's monotonically advancing clock. State exclusively
// owns its containers; containers exclusively own their blocks; blocks
// exclusively own their attribute storage. Grounded on simulate.cpp's
// ParticlesState.
//
// The container map is read-only during a parallel region (spec.md §5);
// the mutex here only guards the serial phases of the step driver
// (ensure-containers, ensure-attributes, compress) against each other,
// never against block-level work.
type State struct {
	mu          sync.RWMutex
	containers  map[string]*Container
	currentTime float64
}

// NewState returns an empty simulation state with clock at zero.
func NewState() *State {
	return &State{containers: make(map[string]*Container)}
}

// CurrentTime returns the simulation's current absolute time.
func (s *State) CurrentTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTime
}

// AdvanceTo moves the simulation clock forward to t. The step driver
// calls this before any block work begins, so every downstream read of
// CurrentTime during the step sees the step's end time (spec.md §3, §4.5).
func (s *State) AdvanceTo(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTime = t
}

// Container returns the container for typeName, or nil if none exists
// yet.
func (s *State) Container(typeName string) *Container {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containers[typeName]
}

// TypeNames returns every particle-type name with a container, in no
// particular order.
func (s *State) TypeNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.containers))
	for name := range s.containers {
		names = append(names, name)
	}
	return names
}

// EnsureContainer returns the container for typeName, creating an empty
// one with the given block capacity if it doesn't exist yet.
func (s *State) EnsureContainer(typeName string, capacity int) *Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.containers[typeName]
	if !ok {
		c = NewContainer(capacity)
		s.containers[typeName] = c
	}
	return c
}
