package surface

import (
	"sort"
	"sync"
)

// MemorySurface is an in-process Surface backed by a plain node tree. It is
// the default target for headless runs and the only target the tests use.
type MemorySurface struct {
	MemoryNode

	width  float64
	height float64
	styles *MemoryStyles
}

// NewMemorySurface returns an empty surface with the given bounds.
func NewMemorySurface(width, height float64) *MemorySurface {
	s := &MemorySurface{
		width:  width,
		height: height,
		styles: &MemoryStyles{rules: map[string]string{}},
	}
	s.mu = &sync.Mutex{}
	s.attached = true
	return s
}

func (s *MemorySurface) Bounds() (float64, float64) { return s.width, s.height }

func (s *MemorySurface) Styles() StyleSink { return s.styles }

// StyleRules returns a copy of the current rule table.
func (s *MemorySurface) StyleRules() map[string]string { return s.styles.Rules() }

// MemoryNode implements Node. All nodes of one surface share the surface's
// mutex so concurrent effect cleanup is safe.
type MemoryNode struct {
	mu *sync.Mutex

	attached bool
	parent   *MemoryNode
	children []*MemoryNode
	classes  []string
	style    map[string]string
	text     string
}

func (n *MemoryNode) AppendChild() (Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.attached {
		return nil, ErrDetached
	}
	child := &MemoryNode{mu: n.mu, attached: true, parent: n}
	n.children = append(n.children, child)
	return child, nil
}

func (n *MemoryNode) AddClass(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.attached {
		return ErrDetached
	}
	for _, c := range n.classes {
		if c == name {
			return nil
		}
	}
	n.classes = append(n.classes, name)
	return nil
}

func (n *MemoryNode) RemoveClass(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.attached {
		return ErrDetached
	}
	for i, c := range n.classes {
		if c == name {
			n.classes = append(n.classes[:i], n.classes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (n *MemoryNode) SetStyle(key, value string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.attached {
		return ErrDetached
	}
	if n.style == nil {
		n.style = map[string]string{}
	}
	n.style[key] = value
	return nil
}

func (n *MemoryNode) SetText(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.attached {
		return ErrDetached
	}
	n.text = text
	return nil
}

func (n *MemoryNode) Remove() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.attached {
		return ErrDetached
	}
	if n.parent != nil {
		for i, c := range n.parent.children {
			if c == n {
				n.parent.children = append(n.parent.children[:i], n.parent.children[i+1:]...)
				break
			}
		}
	}
	n.detach()
	return nil
}

func (n *MemoryNode) detach() {
	n.attached = false
	for _, c := range n.children {
		c.detach()
	}
}

// Inspection helpers for tests and the demo.

func (n *MemoryNode) ChildCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.children)
}

func (n *MemoryNode) Child(i int) *MemoryNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *MemoryNode) Classes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.classes))
	copy(out, n.classes)
	return out
}

func (n *MemoryNode) HasClass(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, c := range n.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (n *MemoryNode) Style(key string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.style[key]
}

func (n *MemoryNode) Text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

func (n *MemoryNode) Attached() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attached
}

// MemoryStyles is a map-backed StyleSink.
type MemoryStyles struct {
	mu    sync.Mutex
	rules map[string]string
}

func (m *MemoryStyles) PutRule(name, css string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[name] = css
	return nil
}

func (m *MemoryStyles) DeleteRule(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rules, name)
	return nil
}

// Rules returns a copy of the rule table.
func (m *MemoryStyles) Rules() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.rules))
	for k, v := range m.rules {
		out[k] = v
	}
	return out
}

// RuleNames returns the registered rule names, sorted.
func (m *MemoryStyles) RuleNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.rules))
	for k := range m.rules {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
