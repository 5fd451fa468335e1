package anim

import (
	"log"
	"sort"
	"sync"

	"github.com/pixelmint/nftplay/surface"
)

// StyleArena is the shared style-rule namespace. Rule names are process-wide:
// two concurrently mounted sessions may register the same animation, so
// inserting an existing name is a safe no-op, never a duplicate error.
// Rules are written through to an optional surface style sink.
type StyleArena struct {
	mu    sync.Mutex
	rules map[string]string
	sink  surface.StyleSink
}

// NewStyleArena returns an empty arena. sink may be nil for headless use.
func NewStyleArena(sink surface.StyleSink) *StyleArena {
	return &StyleArena{rules: map[string]string{}, sink: sink}
}

// Insert registers a compiled rule under name. Returns true when the rule was
// newly inserted, false when the name already existed (no-op).
func (s *StyleArena) Insert(name, css string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[name]; ok {
		return false
	}
	s.rules[name] = css
	if s.sink != nil {
		if err := s.sink.PutRule(name, css); err != nil {
			log.Printf("Warning: could not publish style rule %q: %v", name, err)
		}
	}
	return true
}

// Has reports whether a rule with the given name exists.
func (s *StyleArena) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rules[name]
	return ok
}

// Rule returns the compiled text for name.
func (s *StyleArena) Rule(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	css, ok := s.rules[name]
	return css, ok
}

// Remove drops a rule. Already-materialized nodes referencing the class clean
// up on their own schedule.
func (s *StyleArena) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[name]; !ok {
		return
	}
	delete(s.rules, name)
	if s.sink != nil {
		if err := s.sink.DeleteRule(name); err != nil {
			log.Printf("Warning: could not delete style rule %q: %v", name, err)
		}
	}
}

// Export concatenates all rules in name order.
func (s *StyleArena) Export() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.rules))
	for n := range s.rules {
		names = append(names, n)
	}
	sort.Strings(names)
	out := ""
	for _, n := range names {
		out += s.rules[n]
	}
	return out
}
