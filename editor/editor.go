// Package editor is the authoring side of the effect pipeline: it owns the
// mutable effect list, enforces the keyframe editing rules, previews compiled
// animations on a surface, and round-trips the list through the persistence
// snapshot. The runtime registry only ever sees clones of what the editor
// holds.
package editor

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pixelmint/nftplay/anim"
	"github.com/pixelmint/nftplay/surface"
	"github.com/pixelmint/nftplay/systems"
)

var (
	ErrUnknownEffect   = errors.New("editor: unknown effect")
	ErrUnknownKeyframe = errors.New("editor: keyframe index out of range")
	ErrMinKeyframes    = errors.New("editor: animations keep at least 2 keyframes")
	ErrNoPreview       = errors.New("editor: no preview surface configured")
	ErrNoSplittableGap = errors.New("editor: timeline has no splittable gap")
)

// minKeyframeGap is the smallest timeline gap AddKeyframe will split.
const minKeyframeGap = 10.0

// Editor manages the authored effect list.
type Editor struct {
	mu      sync.Mutex
	effects []anim.Effect

	preview      surface.Surface
	previewClass string
}

// New builds an editor over an initial effect list (nil starts empty).
func New(effects []anim.Effect) *Editor {
	e := &Editor{}
	for i := range effects {
		e.effects = append(e.effects, effects[i].Clone())
	}
	return e
}

// Effects returns a deep copy of the current list, in authoring order.
func (e *Editor) Effects() []anim.Effect {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]anim.Effect, 0, len(e.effects))
	for i := range e.effects {
		out = append(out, e.effects[i].Clone())
	}
	return out
}

// Effect returns a copy of one effect by ID.
func (e *Editor) Effect(id string) (anim.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return anim.Effect{}, err
	}
	return e.effects[i].Clone(), nil
}

// AddEffect appends a fresh default effect: an active click-triggered
// particle burst with a two-keyframe fade-out curve. Returns the new ID.
func (e *Editor) AddEffect() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := uuid.NewString()
	name := "fx-" + strings.Split(id, "-")[0]
	eff := anim.Effect{
		ID:      id,
		Type:    anim.EffectParticle,
		Trigger: anim.TriggerClick,
		Active:  true,
		Animation: anim.Animation{
			Name:           name,
			Duration:       1,
			IterationCount: 1,
			Direction:      anim.DirectionNormal,
			FillMode:       "forwards",
			Keyframes: []anim.Keyframe{
				{Position: 0, Opacity: 1, Timing: anim.TimingLinear, Transform: anim.Transform{Scale: 1}},
				{Position: 100, Opacity: 0, Timing: anim.TimingLinear, Transform: anim.Transform{Scale: 1.5, TranslateY: -40}},
			},
		},
		Particle: &anim.ParticleSpec{
			Count: 12,
			Shape: anim.ShapeCircle,
			Color: "#ffd700",
			Size:  6,
		},
	}
	e.effects = append(e.effects, eff)
	return id
}

// RemoveEffect deletes an effect. List order of the survivors is preserved.
func (e *Editor) RemoveEffect(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return err
	}
	e.effects = append(e.effects[:i], e.effects[i+1:]...)
	return nil
}

// UpdateEffect replaces an effect's presentation fields (type, trigger,
// condition, variant specs, active flag) after validation. The animation is
// updated through UpdateAnimation/keyframe ops, not here.
func (e *Editor) UpdateEffect(id string, upd anim.Effect) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return err
	}
	next := upd.Clone()
	next.ID = id
	next.Animation = e.effects[i].Animation
	if err := next.Validate(); err != nil {
		return err
	}
	e.effects[i] = next
	return nil
}

// SetActive toggles an effect without touching anything else.
func (e *Editor) SetActive(id string, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return err
	}
	e.effects[i].Active = active
	return nil
}

// UpdateAnimation replaces an effect's timing envelope (duration, delay,
// iterations, direction, fill mode). Name and keyframes are kept; the name
// is the registry's style identity and never edited in place.
func (e *Editor) UpdateAnimation(id string, a anim.Animation) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return err
	}
	cur := e.effects[i].Animation
	a.Name = cur.Name
	a.Keyframes = cur.Keyframes
	if err := a.Validate(); err != nil {
		return err
	}
	e.effects[i].Animation = a
	return nil
}

// AddKeyframe inserts a keyframe at the midpoint of the largest timeline gap
// of at least minKeyframeGap, interpolating nothing: the new frame starts as
// a copy of the gap's left neighbor. With no usable gap it falls back to
// position 50, but only when both endpoints exist and 50 is unoccupied;
// otherwise the add is rejected with ErrNoSplittableGap. Returns the index
// of the new keyframe within the sorted timeline.
func (e *Editor) AddKeyframe(id string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return 0, err
	}

	a := &e.effects[i].Animation
	sorted := a.SortedKeyframes()

	gapAt, gapSize := -1, minKeyframeGap
	for k := 0; k < len(sorted)-1; k++ {
		if gap := sorted[k+1].Position - sorted[k].Position; gap >= gapSize {
			gapAt, gapSize = k, gap
		}
	}

	var frame anim.Keyframe
	switch {
	case gapAt >= 0:
		frame = sorted[gapAt]
		frame.Position = sorted[gapAt].Position + gapSize/2
	case hasPosition(sorted, 0) && hasPosition(sorted, 100) && !hasPosition(sorted, 50):
		frame = sorted[0]
		frame.Position = 50
	default:
		return 0, fmt.Errorf("%w: %q", ErrNoSplittableGap, a.Name)
	}

	a.Keyframes = append(a.Keyframes, frame)
	sorted = a.SortedKeyframes()
	for k := range sorted {
		if sorted[k] == frame {
			return k, nil
		}
	}
	return len(sorted) - 1, nil
}

func hasPosition(frames []anim.Keyframe, pos float64) bool {
	for _, f := range frames {
		if f.Position == pos {
			return true
		}
	}
	return false
}

// RemoveKeyframe deletes the keyframe at sorted-timeline index idx. The
// two-keyframe floor always holds.
func (e *Editor) RemoveKeyframe(id string, idx int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return err
	}
	a := &e.effects[i].Animation
	if len(a.Keyframes) <= 2 {
		return fmt.Errorf("%w: %q", ErrMinKeyframes, a.Name)
	}
	sorted := a.SortedKeyframes()
	if idx < 0 || idx >= len(sorted) {
		return fmt.Errorf("%w: %d", ErrUnknownKeyframe, idx)
	}
	a.Keyframes = append(sorted[:idx], sorted[idx+1:]...)
	return nil
}

// UpdateKeyframe replaces the keyframe at sorted-timeline index idx.
func (e *Editor) UpdateKeyframe(id string, idx int, frame anim.Keyframe) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(id)
	if err != nil {
		return err
	}
	a := &e.effects[i].Animation
	sorted := a.SortedKeyframes()
	if idx < 0 || idx >= len(sorted) {
		return fmt.Errorf("%w: %d", ErrUnknownKeyframe, idx)
	}
	sorted[idx] = frame
	a.Keyframes = sorted
	return nil
}

// SetPreviewSurface binds the live-preview target. Nil disables previewing.
func (e *Editor) SetPreviewSurface(s surface.Surface) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearPreviewLocked()
	e.preview = s
}

// Preview compiles one effect's animation straight onto the preview surface,
// bypassing the runtime registry. Only one preview runs at a time; starting
// a new one clears the previous class.
func (e *Editor) Preview(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.preview == nil {
		return ErrNoPreview
	}
	i, err := e.indexLocked(id)
	if err != nil {
		return err
	}
	a := e.effects[i].Animation
	css, err := anim.CompileCSS(a)
	if err != nil {
		return err
	}
	e.clearPreviewLocked()
	if err := e.preview.Styles().PutRule(a.Name, css); err != nil {
		return fmt.Errorf("editor: preview rule: %w", err)
	}
	if err := e.preview.AddClass(a.Name); err != nil {
		return fmt.Errorf("editor: preview class: %w", err)
	}
	e.previewClass = a.Name
	return nil
}

// StopPreview removes the running preview, if any.
func (e *Editor) StopPreview() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearPreviewLocked()
}

func (e *Editor) clearPreviewLocked() {
	if e.preview == nil || e.previewClass == "" {
		return
	}
	if err := e.preview.RemoveClass(e.previewClass); err != nil && err != surface.ErrDetached {
		log.Printf("Warning: could not clear preview class %q: %v", e.previewClass, err)
	}
	_ = e.preview.Styles().DeleteRule(e.previewClass)
	e.previewClass = ""
}

// ExportCSS compiles every active effect's animation, in list order.
func (e *Editor) ExportCSS() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var b strings.Builder
	for i := range e.effects {
		if !e.effects[i].Active {
			continue
		}
		css, err := anim.CompileCSS(e.effects[i].Animation)
		if err != nil {
			return "", fmt.Errorf("editor: compile %q: %w", e.effects[i].Animation.Name, err)
		}
		b.WriteString(css)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Save persists the effect list as the snapshot the next session restores.
func (e *Editor) Save() error {
	return systems.SaveEffects(e.Effects())
}

// Load replaces the effect list with the persisted snapshot. A missing
// snapshot leaves the current list untouched.
func (e *Editor) Load() error {
	effects, err := systems.LoadEffects()
	if err != nil {
		return err
	}
	if effects == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.effects = effects
	return nil
}

func (e *Editor) indexLocked(id string) (int, error) {
	for i := range e.effects {
		if e.effects[i].ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownEffect, id)
}
