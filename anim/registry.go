package anim

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixelmint/nftplay/surface"
)

// TimerFactory schedules f after d and returns a cancel func. The default
// wraps time.AfterFunc; tests inject a synchronous factory.
type TimerFactory func(d time.Duration, f func()) (cancel func())

func stdTimer(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// Materialized describes one triggered effect occurrence. The engine hooks
// this to attach motion tweens to the spawned nodes.
type Materialized struct {
	InstanceID string
	Effect     Effect
	Target     surface.Surface
	Container  surface.Node   // nil for filter effects
	Nodes      []surface.Node // particle children, or the single text/ring/glow node
	Lifetime   time.Duration  // scheduled cleanup window
}

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Arena is the shared style-rule namespace. Required.
	Arena *StyleArena

	// NewTimer schedules cleanup callbacks. Nil uses time.AfterFunc.
	NewTimer TimerFactory

	// InfiniteCleanupWindow caps the cleanup delay for infinite iteration
	// counts, where a natural removal time is undefined. Zero uses 10s.
	InfiniteCleanupWindow time.Duration

	// OnMaterialize, when set, observes every materialization.
	OnMaterialize func(Materialized)

	// Rand drives particle angle/distance spread. Nil seeds from the clock.
	Rand *rand.Rand
}

const defaultInfiniteCleanupWindow = 10 * time.Second

// Registry holds a session's registered effect instances and dispatches
// triggers to them. Instances hold transient clones of the authored effects;
// the authoring side keeps the authoritative objects.
type Registry struct {
	mu        sync.Mutex
	arena     *StyleArena
	newTimer  TimerFactory
	infWindow time.Duration
	onMat     func(Materialized)
	rng       *rand.Rand

	instances map[string]Effect
	owned     []string // arena rule names this registry inserted first
	cancels   map[int]func()
	nextTimer int
	closed    bool
}

// NewRegistry builds a registry from cfg.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if cfg.Arena == nil {
		return nil, fmt.Errorf("anim: registry config requires an arena")
	}
	nt := cfg.NewTimer
	if nt == nil {
		nt = stdTimer
	}
	iw := cfg.InfiniteCleanupWindow
	if iw <= 0 {
		iw = defaultInfiniteCleanupWindow
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Registry{
		arena:     cfg.Arena,
		newTimer:  nt,
		infWindow: iw,
		onMat:     cfg.OnMaterialize,
		rng:       rng,
		instances: map[string]Effect{},
		cancels:   map[int]func(){},
	}, nil
}

// Register validates the effect, compiles its animation into the shared
// arena (idempotent by name), stores a clone, and returns a fresh instance
// ID for later Trigger/Unregister calls.
func (r *Registry) Register(e Effect) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	css, err := CompileCSS(e.Animation)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", fmt.Errorf("anim: registry is closed")
	}
	if r.arena.Insert(e.Animation.Name, css) {
		r.owned = append(r.owned, e.Animation.Name)
	}
	id := uuid.NewString()
	r.instances[id] = e.Clone()
	return id, nil
}

// Unregister removes instance bookkeeping. Already-materialized nodes clean
// up on their own schedule.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, id)
}

// InstanceIDs returns the currently registered instance IDs.
func (r *Registry) InstanceIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.instances))
	for id := range r.instances {
		ids = append(ids, id)
	}
	return ids
}

// Trigger dispatches a trigger to one instance. It is a no-op when the
// instance is missing, inactive, registered for a different trigger kind, or
// when a condition trigger's threshold is not met by snap. Returns whether
// the effect materialized.
func (r *Registry) Trigger(id string, kind TriggerKind, target surface.Surface, snap Snapshot) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	e, ok := r.instances[id]
	r.mu.Unlock()

	if !ok || !e.Active || e.Trigger != kind || target == nil {
		return false
	}
	if kind == TriggerCondition {
		if e.Condition == nil || snap.Value(e.Condition.Metric) < e.Condition.Threshold {
			return false
		}
	}

	m, err := r.materialize(id, e, target)
	if err != nil {
		log.Printf("Warning: could not materialize effect %q: %v", e.ID, err)
		return false
	}
	if r.onMat != nil {
		r.onMat(m)
	}
	return true
}

// TriggerAll dispatches a trigger to every registered instance and returns
// how many materialized.
func (r *Registry) TriggerAll(kind TriggerKind, target surface.Surface, snap Snapshot) int {
	fired := 0
	for _, id := range r.InstanceIDs() {
		if r.Trigger(id, kind, target, snap) {
			fired++
		}
	}
	return fired
}

// CleanupDelay is the scheduled removal window for an animation: one
// (duration+delay) pass per iteration, capped at the infinite window when
// the iteration count never ends.
func (r *Registry) CleanupDelay(a Animation) time.Duration {
	single := time.Duration((a.Duration + a.Delay) * float64(time.Second))
	if a.Infinite() {
		return r.infWindow
	}
	return single * time.Duration(a.IterationCount)
}

func (r *Registry) materialize(instanceID string, e Effect, target surface.Surface) (Materialized, error) {
	lifetime := r.CleanupDelay(e.Animation)
	m := Materialized{InstanceID: instanceID, Effect: e, Target: target, Lifetime: lifetime}
	class := e.Animation.Name

	// Filter effects apply the class to the target itself and spawn nothing.
	// The class comes off after one (duration+delay) pass regardless of the
	// iteration count.
	if e.Type == EffectFilter {
		lifetime = time.Duration((e.Animation.Duration + e.Animation.Delay) * float64(time.Second))
		if e.Animation.Infinite() {
			lifetime = r.infWindow
		}
		m.Lifetime = lifetime
		if err := target.AddClass(class); err != nil {
			return m, err
		}
		r.schedule(lifetime, func() {
			if err := target.RemoveClass(class); err != nil {
				log.Printf("Warning: filter cleanup for %q: %v", class, err)
			}
		})
		return m, nil
	}

	container, err := target.AppendChild()
	if err != nil {
		return m, err
	}
	m.Container = container

	switch e.Type {
	case EffectParticle:
		m.Nodes, err = r.spawnParticles(container, e, class, target)
	case EffectText:
		m.Nodes, err = spawnText(container, e, class)
	case EffectShockwave:
		m.Nodes, err = spawnShockwave(container, e, class)
	case EffectGlow:
		m.Nodes, err = spawnGlow(container, e, class)
	default:
		err = fmt.Errorf("anim: unknown effect type %q", e.Type)
	}
	if err != nil {
		if rmErr := container.Remove(); rmErr != nil {
			log.Printf("Warning: container cleanup after spawn failure: %v", rmErr)
		}
		return m, err
	}

	r.schedule(lifetime, func() {
		if err := container.Remove(); err != nil {
			// Surface may already be torn down; cleanup errors never propagate.
			log.Printf("Warning: effect cleanup for %q: %v", class, err)
		}
	})
	return m, nil
}

func (r *Registry) spawnParticles(container surface.Node, e Effect, class string, target surface.Surface) ([]surface.Node, error) {
	spec := e.Particle
	w, h := target.Bounds()
	cx, cy := w/2, h/2

	count := spec.Count
	if count <= 0 {
		count = 1
	}
	nodes := make([]surface.Node, 0, count)
	for i := 0; i < count; i++ {
		p, err := container.AppendChild()
		if err != nil {
			return nodes, err
		}
		angle, frac := r.spread()
		dist := frac * math.Min(cx, cy)
		x := cx + math.Cos(angle)*dist
		y := cy + math.Sin(angle)*dist

		if err := p.AddClass(class); err != nil {
			return nodes, err
		}
		setStyles(p, map[string]string{
			"left":             px(x),
			"top":              px(y),
			"width":            px(spec.Size),
			"height":           px(spec.Size),
			"background-color": spec.Color,
			"border-radius":    particleRadius(spec.Shape, spec.Size),
		})
		if spec.Shape == ShapeImage && spec.Image != "" {
			setStyles(p, map[string]string{"background-image": "url(" + spec.Image + ")"})
		}
		nodes = append(nodes, p)
	}
	return nodes, nil
}

func spawnText(container surface.Node, e Effect, class string) ([]surface.Node, error) {
	spec := e.Text
	n, err := container.AppendChild()
	if err != nil {
		return nil, err
	}
	if err := n.SetText(spec.Content); err != nil {
		return nil, err
	}
	if err := n.AddClass(class); err != nil {
		return nil, err
	}
	setStyles(n, map[string]string{
		"color":     spec.Color,
		"font-size": px(spec.Size),
		"left":      "50%",
		"top":       "50%",
	})
	return []surface.Node{n}, nil
}

func spawnShockwave(container surface.Node, e Effect, class string) ([]surface.Node, error) {
	spec := e.Shockwave
	n, err := container.AppendChild()
	if err != nil {
		return nil, err
	}
	if err := n.AddClass(class); err != nil {
		return nil, err
	}
	setStyles(n, map[string]string{
		"width":         px(spec.Size),
		"height":        px(spec.Size),
		"border":        "2px solid " + spec.Color,
		"border-radius": "50%",
		"left":          "50%",
		"top":           "50%",
	})
	return []surface.Node{n}, nil
}

func spawnGlow(container surface.Node, e Effect, class string) ([]surface.Node, error) {
	spec := e.Glow
	n, err := container.AppendChild()
	if err != nil {
		return nil, err
	}
	if err := n.AddClass(class); err != nil {
		return nil, err
	}
	setStyles(n, map[string]string{
		"box-shadow":    "0 0 " + px(spec.Size) + " " + spec.Color,
		"border-radius": "50%",
		"left":          "50%",
		"top":           "50%",
	})
	return []surface.Node{n}, nil
}

// spread draws the next particle placement under the registry lock; Trigger
// runs unlocked, so concurrent callers would otherwise race on the shared rng.
func (r *Registry) spread() (angle, frac float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() * 2 * math.Pi, r.rng.Float64()
}

// schedule registers a cancellable cleanup timer.
func (r *Registry) schedule(d time.Duration, f func()) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	token := r.nextTimer
	r.nextTimer++
	r.mu.Unlock()

	cancel := r.newTimer(d, func() {
		f()
		r.mu.Lock()
		delete(r.cancels, token)
		r.mu.Unlock()
	})

	r.mu.Lock()
	r.cancels[token] = cancel
	r.mu.Unlock()
}

// Close cancels every outstanding cleanup timer, drops all instances, and
// detaches the style rules this registry inserted (names first registered by
// a concurrent session stay untouched). Safe to call more than once.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	cancels := make([]func(), 0, len(r.cancels))
	for _, c := range r.cancels {
		cancels = append(cancels, c)
	}
	owned := r.owned
	r.owned = nil
	r.cancels = map[int]func(){}
	r.instances = map[string]Effect{}
	r.mu.Unlock()

	for _, c := range cancels {
		c()
	}
	for _, name := range owned {
		r.arena.Remove(name)
	}
}

func setStyles(n surface.Node, styles map[string]string) {
	for k, v := range styles {
		if err := n.SetStyle(k, v); err != nil {
			log.Printf("Warning: could not set style %q: %v", k, err)
			return
		}
	}
}

func particleRadius(shape ParticleShape, size float64) string {
	switch shape {
	case ShapeSquare:
		return "0"
	case ShapeStar:
		return px(size / 4)
	default:
		return "50%"
	}
}

func px(f float64) string { return num(f) + "px" }
