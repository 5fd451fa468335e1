package anim

import (
	"errors"
	"fmt"
)

// EffectType tags the effect variant.
type EffectType string

const (
	EffectParticle  EffectType = "particle"
	EffectText      EffectType = "text"
	EffectShockwave EffectType = "shockwave"
	EffectGlow      EffectType = "glow"
	EffectFilter    EffectType = "filter"
)

// TriggerKind is the event class that causes an effect to materialize.
type TriggerKind string

const (
	TriggerClick     TriggerKind = "click"
	TriggerHover     TriggerKind = "hover"
	TriggerTimer     TriggerKind = "timer"
	TriggerLoad      TriggerKind = "load"
	TriggerCondition TriggerKind = "condition"
)

// Metric names a session counter a condition trigger can gate on.
type Metric string

const (
	MetricScore Metric = "score"
	MetricLevel Metric = "level"
	MetricCombo Metric = "combo"
)

// Condition gates a condition-triggered effect on a session metric reaching
// a threshold.
type Condition struct {
	Metric    Metric  `json:"metric" yaml:"metric"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// Snapshot carries the session metrics handed to Trigger for condition
// evaluation.
type Snapshot struct {
	Score int
	Level int
	Combo int
}

// Value returns the snapshot value for a metric.
func (s Snapshot) Value(m Metric) float64 {
	switch m {
	case MetricScore:
		return float64(s.Score)
	case MetricLevel:
		return float64(s.Level)
	case MetricCombo:
		return float64(s.Combo)
	}
	return 0
}

// ParticleShape names the rendered particle form.
type ParticleShape string

const (
	ShapeCircle ParticleShape = "circle"
	ShapeSquare ParticleShape = "square"
	ShapeStar   ParticleShape = "star"
	ShapeImage  ParticleShape = "image"
)

// ParticleSpec configures a particle burst.
type ParticleSpec struct {
	Count int           `json:"count" yaml:"count"`
	Shape ParticleShape `json:"shape" yaml:"shape"`
	Image string        `json:"image,omitempty" yaml:"image,omitempty"` // used when Shape == image
	Color string        `json:"color" yaml:"color"`
	Size  float64       `json:"size" yaml:"size"` // px
}

// TextSpec configures a floating text popup.
type TextSpec struct {
	Content string  `json:"content" yaml:"content"`
	Color   string  `json:"color" yaml:"color"`
	Size    float64 `json:"size" yaml:"size"` // px
}

// ShockwaveSpec configures an expanding ring.
type ShockwaveSpec struct {
	Color string  `json:"color" yaml:"color"`
	Size  float64 `json:"size" yaml:"size"` // initial diameter, px
}

// GlowSpec configures a radiating blur.
type GlowSpec struct {
	Color string  `json:"color" yaml:"color"`
	Size  float64 `json:"size" yaml:"size"` // blur radius, px
}

// FilterSpec configures a whole-surface filter pass. The compiled class is
// applied to the target itself, so there is nothing to parameterize beyond
// the animation.
type FilterSpec struct{}

// Effect wraps an Animation with presentation metadata. Exactly one variant
// field matching Type must be set; the others stay nil. The JSON shape is the
// persisted snapshot schema.
type Effect struct {
	ID        string      `json:"id" yaml:"id"`
	Type      EffectType  `json:"type" yaml:"type"`
	Trigger   TriggerKind `json:"trigger" yaml:"trigger"`
	Condition *Condition  `json:"condition,omitempty" yaml:"condition,omitempty"`
	Active    bool        `json:"active" yaml:"active"`
	Animation Animation   `json:"animation" yaml:"animation"`

	Particle  *ParticleSpec  `json:"particle,omitempty" yaml:"particle,omitempty"`
	Text      *TextSpec      `json:"text,omitempty" yaml:"text,omitempty"`
	Shockwave *ShockwaveSpec `json:"shockwave,omitempty" yaml:"shockwave,omitempty"`
	Glow      *GlowSpec      `json:"glow,omitempty" yaml:"glow,omitempty"`
	Filter    *FilterSpec    `json:"filter,omitempty" yaml:"filter,omitempty"`
}

var errVariantMismatch = errors.New("anim: effect variant does not match type")

// Validate checks the variant invariant, the trigger/condition pairing, and
// the wrapped animation.
func (e *Effect) Validate() error {
	if err := e.Animation.Validate(); err != nil {
		return err
	}
	set := 0
	var want bool
	for _, v := range []struct {
		t  EffectType
		ok bool
	}{
		{EffectParticle, e.Particle != nil},
		{EffectText, e.Text != nil},
		{EffectShockwave, e.Shockwave != nil},
		{EffectGlow, e.Glow != nil},
		{EffectFilter, e.Filter != nil},
	} {
		if v.ok {
			set++
		}
		if v.t == e.Type {
			want = v.ok
		}
	}
	if set != 1 || !want {
		return fmt.Errorf("%w: type=%q", errVariantMismatch, e.Type)
	}
	if e.Trigger == TriggerCondition && e.Condition == nil {
		return fmt.Errorf("anim: condition-triggered effect %q has no condition", e.ID)
	}
	return nil
}

// Clone returns a deep copy. The registry stores clones so later editor
// mutations never leak into registered instances.
func (e *Effect) Clone() Effect {
	out := *e
	out.Animation.Keyframes = append([]Keyframe(nil), e.Animation.Keyframes...)
	if e.Condition != nil {
		c := *e.Condition
		out.Condition = &c
	}
	if e.Particle != nil {
		p := *e.Particle
		out.Particle = &p
	}
	if e.Text != nil {
		t := *e.Text
		out.Text = &t
	}
	if e.Shockwave != nil {
		s := *e.Shockwave
		out.Shockwave = &s
	}
	if e.Glow != nil {
		g := *e.Glow
		out.Glow = &g
	}
	if e.Filter != nil {
		f := *e.Filter
		out.Filter = &f
	}
	return out
}
