// Package anim holds the animation data model, the CSS compiler, and the
// runtime effect registry. Animations are named keyframe curves; effects wrap
// an animation with presentation metadata and a trigger. The registry
// materializes triggered effects onto an injected surface and schedules their
// cleanup.
package anim

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrTooFewKeyframes = errors.New("anim: animation needs at least 2 keyframes")
	ErrEmptyName       = errors.New("anim: animation name is empty")
	ErrNegativeTiming  = errors.New("anim: duration and delay must be >= 0")
)

// Transform is the per-keyframe transform record.
type Transform struct {
	TranslateX float64 `json:"translateX" yaml:"translateX"`
	TranslateY float64 `json:"translateY" yaml:"translateY"`
	Scale      float64 `json:"scale" yaml:"scale"`
	Rotate     float64 `json:"rotate" yaml:"rotate"` // degrees
}

// Keyframe is a single point on the animation timeline. Position is a
// percentage (0-100). Positions need not be unique; they are sorted ascending
// before compilation.
type Keyframe struct {
	Position  float64    `json:"position" yaml:"position"`
	Transform Transform  `json:"transform" yaml:"transform"`
	Opacity   float64    `json:"opacity" yaml:"opacity"`
	Timing    TimingFunc `json:"timing" yaml:"timing"`
}

// Direction values mirror the CSS animation-direction keywords.
const (
	DirectionNormal           = "normal"
	DirectionReverse          = "reverse"
	DirectionAlternate        = "alternate"
	DirectionAlternateReverse = "alternate-reverse"
)

// Animation is a named, timed keyframe curve. Name doubles as the generated
// style-class identifier and must be unique across a session's registrations.
// IterationCount == 0 means "infinite".
type Animation struct {
	Name           string     `json:"name" yaml:"name"`
	Duration       float64    `json:"duration" yaml:"duration"` // seconds
	Delay          float64    `json:"delay" yaml:"delay"`       // seconds
	IterationCount int        `json:"iterationCount" yaml:"iterationCount"`
	Direction      string     `json:"direction" yaml:"direction"`
	FillMode       string     `json:"fillMode" yaml:"fillMode"`
	Keyframes      []Keyframe `json:"keyframes" yaml:"keyframes"`
}

// Infinite reports whether the animation repeats forever.
func (a *Animation) Infinite() bool { return a.IterationCount <= 0 }

// Validate rejects animations the registry must never compile.
func (a *Animation) Validate() error {
	if a.Name == "" {
		return ErrEmptyName
	}
	if len(a.Keyframes) < 2 {
		return fmt.Errorf("%w: %q has %d", ErrTooFewKeyframes, a.Name, len(a.Keyframes))
	}
	if a.Duration < 0 || a.Delay < 0 {
		return fmt.Errorf("%w: %q", ErrNegativeTiming, a.Name)
	}
	return nil
}

// SortedKeyframes returns a position-ascending copy of the keyframes. The
// sort is stable so equal positions keep authoring order.
func (a *Animation) SortedKeyframes() []Keyframe {
	out := make([]Keyframe, len(a.Keyframes))
	copy(out, a.Keyframes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
