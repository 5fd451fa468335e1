package anim

import (
	"strings"

	"github.com/tanema/gween/ease"
)

// TimingFunc identifies an easing curve. The fixed values below map onto
// gween easing functions for headless sampling; any other value is passed
// through verbatim to compiled CSS (e.g. a custom cubic-bezier(...) string)
// and samples as linear.
type TimingFunc string

const (
	TimingLinear    TimingFunc = "linear"
	TimingEase      TimingFunc = "ease"
	TimingEaseIn    TimingFunc = "ease-in"
	TimingEaseOut   TimingFunc = "ease-out"
	TimingEaseInOut TimingFunc = "ease-in-out"
)

// Ease returns the gween easing function for the timing identifier.
func (t TimingFunc) Ease() ease.TweenFunc {
	switch t {
	case TimingEase:
		return ease.InOutQuad
	case TimingEaseIn:
		return ease.InCubic
	case TimingEaseOut:
		return ease.OutCubic
	case TimingEaseInOut:
		return ease.InOutCubic
	case TimingLinear:
		return ease.Linear
	default:
		// Custom cubic-bezier strings keep their CSS form but sample linear.
		return ease.Linear
	}
}

// CSS returns the value emitted into the compiled animation shorthand.
func (t TimingFunc) CSS() string {
	if t == "" {
		return string(TimingLinear)
	}
	return string(t)
}

// Valid reports whether the value is one of the fixed identifiers or a
// custom cubic-bezier string.
func (t TimingFunc) Valid() bool {
	switch t {
	case "", TimingLinear, TimingEase, TimingEaseIn, TimingEaseOut, TimingEaseInOut:
		return true
	}
	return strings.HasPrefix(string(t), "cubic-bezier(")
}
