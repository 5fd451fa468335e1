package anim

import (
	"fmt"
	"strconv"
	"strings"
)

// CompileCSS turns a validated animation into a reusable style rule: a
// @keyframes block (keyframes sorted by position) plus a class block carrying
// the animation shorthand. The timing function comes from the first keyframe
// in sort order only; per-keyframe easing beyond that is not expressible in
// the compiled output. That asymmetry is part of the format, not something to
// patch here.
func CompileCSS(a Animation) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}

	frames := a.SortedKeyframes()

	var b strings.Builder
	fmt.Fprintf(&b, "@keyframes %s {\n", a.Name)
	for _, kf := range frames {
		fmt.Fprintf(&b, "  %s%% { transform: translate(%spx, %spx) scale(%s) rotate(%sdeg); opacity: %s; }\n",
			num(kf.Position),
			num(kf.Transform.TranslateX), num(kf.Transform.TranslateY),
			num(kf.Transform.Scale), num(kf.Transform.Rotate),
			num(kf.Opacity),
		)
	}
	b.WriteString("}\n")

	fmt.Fprintf(&b, ".%s {\n", a.Name)
	fmt.Fprintf(&b, "  animation: %s %ss %ss %s %s %s %s;\n",
		a.Name,
		num(a.Duration), num(a.Delay),
		frames[0].Timing.CSS(),
		iterations(a),
		direction(a.Direction),
		fillMode(a.FillMode),
	)
	b.WriteString("}\n")

	return b.String(), nil
}

func iterations(a Animation) string {
	if a.Infinite() {
		return "infinite"
	}
	return strconv.Itoa(a.IterationCount)
}

func direction(d string) string {
	if d == "" {
		return DirectionNormal
	}
	return d
}

func fillMode(f string) string {
	if f == "" {
		return "forwards"
	}
	return f
}

// num formats a float without trailing zeros (1 -> "1", 0.5 -> "0.5").
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
