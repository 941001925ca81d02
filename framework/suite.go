package framework

// Case is one test method: a name and a body that records its outcome
// through the T it receives.
type Case struct {
	Name string
	Run  func(*T)
}

// Suite is a named group of ordered cases sharing lifecycle hooks and a
// sequential execution context. Hooks are explicit optional fields; a nil
// hook is a no-op. Cases run in the exact order they were added — never in
// a sorted or map-iteration order — so a case may depend on engine state
// set up by its predecessors.
type Suite struct {
	Name string

	// BeforeAll runs once before any case. If it fails, no cases run, the
	// suite is marked failed, and AfterAll still runs.
	BeforeAll func(*T)

	// BeforeEach and AfterEach run around every case, inside the case's
	// failure scope: if either fails, that case is marked failed.
	BeforeEach func(*T)
	AfterEach  func(*T)

	// AfterAll runs exactly once after all cases have been attempted,
	// regardless of their outcomes.
	AfterAll func(*T)

	cases []Case
}

func NewSuite(name string) *Suite {
	return &Suite{Name: name}
}

// AddCase appends a case, preserving declaration order. It returns the
// suite so registrations can be chained.
func (s *Suite) AddCase(name string, run func(*T)) *Suite {
	s.cases = append(s.cases, Case{Name: name, Run: run})
	return s
}

// Cases returns the cases in declaration order.
func (s *Suite) Cases() []Case {
	return append([]Case(nil), s.cases...)
}
