package editor_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelmint/nftplay/anim"
	"github.com/pixelmint/nftplay/editor"
	"github.com/pixelmint/nftplay/surface"
)

func TestAddEffectDefaults(t *testing.T) {
	ed := editor.New(nil)
	id := ed.AddEffect()

	eff, err := ed.Effect(id)
	require.NoError(t, err)
	assert.Equal(t, anim.EffectParticle, eff.Type)
	assert.Equal(t, anim.TriggerClick, eff.Trigger)
	assert.True(t, eff.Active)
	require.Len(t, eff.Animation.Keyframes, 2)
	assert.Equal(t, 0.0, eff.Animation.Keyframes[0].Position)
	assert.Equal(t, 100.0, eff.Animation.Keyframes[1].Position)
	assert.NoError(t, eff.Validate())
}

func TestRemoveEffectKeepsOrder(t *testing.T) {
	ed := editor.New(nil)
	a := ed.AddEffect()
	b := ed.AddEffect()
	c := ed.AddEffect()

	require.NoError(t, ed.RemoveEffect(b))
	ids := []string{}
	for _, e := range ed.Effects() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{a, c}, ids)

	assert.ErrorIs(t, ed.RemoveEffect(b), editor.ErrUnknownEffect)
}

func TestAddKeyframeSplitsLargestGap(t *testing.T) {
	ed := editor.New(nil)
	id := ed.AddEffect()

	// 0 and 100 leave one gap; the new frame lands at its midpoint.
	idx, err := ed.AddKeyframe(id)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	eff, err := ed.Effect(id)
	require.NoError(t, err)
	sorted := eff.Animation.SortedKeyframes()
	require.Len(t, sorted, 3)
	assert.Equal(t, 50.0, sorted[1].Position)

	// Both halves now tie; the later gap wins the split.
	idx, err = ed.AddKeyframe(id)
	require.NoError(t, err)
	eff, _ = ed.Effect(id)
	sorted = eff.Animation.SortedKeyframes()
	require.Len(t, sorted, 4)
	assert.Equal(t, 75.0, sorted[idx].Position)
}

func editorWithPositions(positions ...float64) (*editor.Editor, string) {
	frames := make([]anim.Keyframe, 0, len(positions))
	for _, p := range positions {
		frames = append(frames, anim.Keyframe{Position: p, Opacity: 1})
	}
	eff := anim.Effect{
		ID:      "fx-timeline",
		Type:    anim.EffectParticle,
		Trigger: anim.TriggerClick,
		Active:  true,
		Animation: anim.Animation{
			Name:           "fx-timeline",
			Duration:       1,
			IterationCount: 1,
			Keyframes:      frames,
		},
		Particle: &anim.ParticleSpec{Count: 3, Shape: anim.ShapeCircle, Color: "#fff", Size: 4},
	}
	return editor.New([]anim.Effect{eff}), eff.ID
}

func TestAddKeyframeFallbackNeedsFreeMidpoint(t *testing.T) {
	// Dense timeline with every gap under the split threshold but 50 itself
	// free: the fallback lands there.
	positions := []float64{100}
	for p := 0.0; p <= 98; p += 7 {
		positions = append(positions, p)
	}
	ed, id := editorWithPositions(positions...)
	idx, err := ed.AddKeyframe(id)
	require.NoError(t, err)
	eff, _ := ed.Effect(id)
	assert.Equal(t, 50.0, eff.Animation.SortedKeyframes()[idx].Position)

	// Without the 0/100 endpoints the fallback is off the table.
	ed, id = editorWithPositions(45, 52)
	_, err = ed.AddKeyframe(id)
	assert.ErrorIs(t, err, editor.ErrNoSplittableGap)
}

func TestAddKeyframeRejectsFullTimeline(t *testing.T) {
	ed := editor.New(nil)
	id := ed.AddEffect()

	// Splitting from {0,100} halves gaps 100→50→25→12.5→6.25 and then
	// stalls below the threshold with 50 already taken.
	for i := 0; i < 15; i++ {
		_, err := ed.AddKeyframe(id)
		require.NoError(t, err)
	}
	_, err := ed.AddKeyframe(id)
	assert.ErrorIs(t, err, editor.ErrNoSplittableGap)

	eff, _ := ed.Effect(id)
	assert.Len(t, eff.Animation.Keyframes, 17)
}

func TestRemoveKeyframeFloor(t *testing.T) {
	ed := editor.New(nil)
	id := ed.AddEffect()

	assert.ErrorIs(t, ed.RemoveKeyframe(id, 0), editor.ErrMinKeyframes)

	_, err := ed.AddKeyframe(id)
	require.NoError(t, err)
	require.NoError(t, ed.RemoveKeyframe(id, 1))

	eff, _ := ed.Effect(id)
	assert.Len(t, eff.Animation.Keyframes, 2)
	assert.ErrorIs(t, ed.RemoveKeyframe(id, 0), editor.ErrMinKeyframes)
	assert.ErrorIs(t, ed.RemoveKeyframe(id, 99), editor.ErrMinKeyframes)
}

func TestUpdateKeyframe(t *testing.T) {
	ed := editor.New(nil)
	id := ed.AddEffect()

	frame := anim.Keyframe{Position: 30, Opacity: 0.5, Timing: anim.TimingEaseIn}
	require.NoError(t, ed.UpdateKeyframe(id, 0, frame))

	eff, _ := ed.Effect(id)
	sorted := eff.Animation.SortedKeyframes()
	assert.Equal(t, 30.0, sorted[0].Position)
	assert.Equal(t, 0.5, sorted[0].Opacity)

	assert.ErrorIs(t, ed.UpdateKeyframe(id, 5, frame), editor.ErrUnknownKeyframe)
}

func TestUpdateAnimationKeepsIdentity(t *testing.T) {
	ed := editor.New(nil)
	id := ed.AddEffect()
	eff, _ := ed.Effect(id)
	origName := eff.Animation.Name

	require.NoError(t, ed.UpdateAnimation(id, anim.Animation{
		Name:           "renamed",
		Duration:       3,
		Delay:          0.2,
		IterationCount: 0,
		Direction:      anim.DirectionAlternate,
	}))

	eff, _ = ed.Effect(id)
	assert.Equal(t, origName, eff.Animation.Name, "the style identity never changes")
	assert.Equal(t, 3.0, eff.Animation.Duration)
	assert.True(t, eff.Animation.Infinite())
	assert.Len(t, eff.Animation.Keyframes, 2, "keyframes survive envelope edits")

	err := ed.UpdateAnimation(id, anim.Animation{Duration: -1})
	assert.ErrorIs(t, err, anim.ErrNegativeTiming)
}

func TestPreviewLifecycle(t *testing.T) {
	ed := editor.New(nil)
	id := ed.AddEffect()

	assert.ErrorIs(t, ed.Preview(id), editor.ErrNoPreview)

	surf := surface.NewMemorySurface(100, 100)
	ed.SetPreviewSurface(surf)
	require.NoError(t, ed.Preview(id))

	eff, _ := ed.Effect(id)
	name := eff.Animation.Name
	assert.True(t, surf.HasClass(name))
	assert.Contains(t, surf.StyleRules(), name)

	// A second preview replaces the first.
	other := ed.AddEffect()
	require.NoError(t, ed.Preview(other))
	assert.False(t, surf.HasClass(name))

	ed.StopPreview()
	otherEff, _ := ed.Effect(other)
	assert.False(t, surf.HasClass(otherEff.Animation.Name))
}

func TestExportCSSActiveOnly(t *testing.T) {
	ed := editor.New(nil)
	a := ed.AddEffect()
	b := ed.AddEffect()
	require.NoError(t, ed.SetActive(b, false))

	css, err := ed.ExportCSS()
	require.NoError(t, err)

	effA, _ := ed.Effect(a)
	effB, _ := ed.Effect(b)
	assert.Contains(t, css, "@keyframes "+effA.Animation.Name)
	assert.NotContains(t, css, effB.Animation.Name)
}

func TestSnapshotRoundTripCompilesIdentically(t *testing.T) {
	ed := editor.New(nil)
	a := ed.AddEffect()
	_ = ed.AddEffect()
	_, err := ed.AddKeyframe(a)
	require.NoError(t, err)

	before, err := ed.ExportCSS()
	require.NoError(t, err)

	// The persisted snapshot is the JSON form of the effect list; reloading
	// it must compile to the same rules.
	data, err := json.Marshal(ed.Effects())
	require.NoError(t, err)
	var restored []anim.Effect
	require.NoError(t, json.Unmarshal(data, &restored))

	after, err := editor.New(restored).ExportCSS()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEditorCopiesAreIsolated(t *testing.T) {
	ed := editor.New(nil)
	id := ed.AddEffect()

	got, _ := ed.Effect(id)
	got.Particle.Count = 999
	got.Animation.Keyframes[0].Opacity = 0.1

	fresh, _ := ed.Effect(id)
	assert.NotEqual(t, 999, fresh.Particle.Count, "returned effects are deep copies")
	assert.Equal(t, 1.0, fresh.Animation.Keyframes[0].Opacity)
}
