package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/pixelmint/nftplay/anim"
	"github.com/pixelmint/nftplay/editor"
	"github.com/pixelmint/nftplay/feed"
	"github.com/pixelmint/nftplay/game"
	"github.com/pixelmint/nftplay/surface"
	"github.com/pixelmint/nftplay/systems"
)

func main() {
	feedURL := flag.String("feed", "", "live-event feed WebSocket URL (optional)")
	tokenID := flag.String("token", "demo-1", "token ID for this view")
	duration := flag.Duration("for", 10*time.Second, "how long the demo interacts before saving")
	flag.Parse()

	// Persistence is best effort: a failed init just means a stateless run.
	if err := systems.InitPersistence(); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}

	ed := editor.New(defaultEffects())
	if err := ed.Load(); err != nil {
		log.Printf("Warning: Could not load saved effects: %v", err)
	}

	surf := surface.NewMemorySurface(640, 640)
	session, err := game.NewSession(game.Config{
		Surface: surf,
		Effects: ed.Effects(),
		TokenID: *tokenID,
	})
	if err != nil {
		log.Fatalf("Could not start session: %v", err)
	}

	if saved, err := systems.LoadProgress(); err == nil && saved != nil {
		session.ApplyProgress(saved)
	}

	runner := game.NewRunner(session)

	var feedClient *feed.Client
	if *feedURL != "" {
		feedClient = feed.NewClient(*feedURL, session.HandleFeedEvent)
		if err := feedClient.Connect(context.Background()); err != nil {
			log.Printf("Warning: feed unavailable, continuing offline: %v", err)
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	demo(session, *duration, interrupt)

	if feedClient != nil {
		feedClient.Close()
	}
	if err := systems.SaveProgress(session.ExportProgress()); err != nil {
		log.Printf("Warning: Could not save progress: %v", err)
	}
	if err := ed.Save(); err != nil {
		log.Printf("Warning: Could not save effects: %v", err)
	}
	runner.Close()

	state := session.State()
	fmt.Printf("session over: score=%d level=%d maxCombo=%d clicks=%d\n",
		state.Score, state.Level, state.MaxCombo, state.TotalClicks)
	for _, t := range session.Toasts() {
		fmt.Printf("  [%s] %s\n", t.Kind, t.Message)
	}
}

// demo drives scripted clicks across the surface until the duration elapses
// or the process is interrupted.
func demo(session *game.Session, d time.Duration, interrupt <-chan os.Signal) {
	deadline := time.After(d)
	click := time.NewTicker(120 * time.Millisecond)
	defer click.Stop()

	spots := [][2]float64{{320, 320}, {100, 100}, {540, 320}, {320, 540}, {100, 540}}
	i := 0
	for {
		select {
		case <-interrupt:
			return
		case <-deadline:
			return
		case <-click.C:
			p := spots[i%len(spots)]
			res := session.HandleClick(p[0], p[1])
			if res.Clue != "" {
				fmt.Printf("clue: %s\n", res.Clue)
			}
			for _, lvl := range res.LevelUps {
				fmt.Printf("reached level %d\n", lvl)
			}
			i++
			if i == 20 {
				session.StartBoss()
			}
		}
	}
}

// defaultEffects is the out-of-the-box effect set used when no snapshot has
// been saved yet.
func defaultEffects() []anim.Effect {
	return []anim.Effect{
		{
			ID:      "default-burst",
			Type:    anim.EffectParticle,
			Trigger: anim.TriggerClick,
			Active:  true,
			Animation: anim.Animation{
				Name:           "fx-burst",
				Duration:       0.8,
				IterationCount: 1,
				Keyframes: []anim.Keyframe{
					{Position: 0, Opacity: 1, Timing: anim.TimingEaseOut, Transform: anim.Transform{Scale: 1}},
					{Position: 100, Opacity: 0, Transform: anim.Transform{Scale: 1.6, TranslateY: -30}},
				},
			},
			Particle: &anim.ParticleSpec{Count: 10, Shape: anim.ShapeCircle, Color: "#ffd700", Size: 6},
		},
		{
			ID:      "default-levelup",
			Type:    anim.EffectText,
			Trigger: anim.TriggerCondition,
			Condition: &anim.Condition{
				Metric:    anim.MetricLevel,
				Threshold: 2,
			},
			Active: true,
			Animation: anim.Animation{
				Name:           "fx-levelup",
				Duration:       1.2,
				IterationCount: 1,
				Keyframes: []anim.Keyframe{
					{Position: 0, Opacity: 0, Timing: anim.TimingEaseInOut},
					{Position: 20, Opacity: 1},
					{Position: 100, Opacity: 0, Transform: anim.Transform{TranslateY: -60}},
				},
			},
			Text: &anim.TextSpec{Content: "LEVEL UP", Color: "#7df9ff", Size: 28},
		},
	}
}
