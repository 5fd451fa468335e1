package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventMultiplier(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want float64
	}{
		{
			name: "weekday daytime",
			t:    time.Date(2026, time.January, 7, 12, 0, 0, 0, time.UTC), // Wednesday
			want: 1,
		},
		{
			name: "weekday late night",
			t:    time.Date(2026, time.January, 7, 23, 30, 0, 0, time.UTC),
			want: 2,
		},
		{
			name: "weekday early morning",
			t:    time.Date(2026, time.January, 7, 5, 59, 0, 0, time.UTC),
			want: 2,
		},
		{
			name: "night window closes at six",
			t:    time.Date(2026, time.January, 7, 6, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "saturday daytime",
			t:    time.Date(2026, time.January, 10, 14, 0, 0, 0, time.UTC),
			want: 1.5,
		},
		{
			name: "sunday daytime",
			t:    time.Date(2026, time.January, 11, 14, 0, 0, 0, time.UTC),
			want: 1.5,
		},
		{
			name: "weekend night prefers the night bonus",
			t:    time.Date(2026, time.January, 10, 23, 0, 0, 0, time.UTC),
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EventMultiplier(tt.t))
		})
	}
}

func TestRefreshEventMultiplier(t *testing.T) {
	s, clock, _ := newTestSession(t)
	assert.Equal(t, 1.0, s.State().EventMultiplier)

	// The modifier is a snapshot: crossing into the night window changes
	// nothing until an explicit refresh.
	clock.Advance(11 * time.Hour) // 23:00
	assert.Equal(t, 1.0, s.State().EventMultiplier)

	s.RefreshEventMultiplier()
	assert.Equal(t, 2.0, s.State().EventMultiplier)

	res := s.HandleClick(150, 150)
	assert.Equal(t, 20, res.Points, "base points doubled at night")
}
