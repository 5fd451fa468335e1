package systems

import (
	"encoding/json"
	"log"

	"github.com/quasilyte/gdata"

	"github.com/pixelmint/nftplay/anim"
)

// SavedProgress is the cross-session snapshot written on explicit save.
// Session scoring state is deliberately not durable beyond this.
type SavedProgress struct {
	Level         int      `json:"level"`
	XP            int      `json:"xp"`
	XPToNext      int      `json:"xpToNext"`
	Score         int      `json:"score"`
	Chapter       int      `json:"chapter"`
	Fragments     []string `json:"fragments"`
	FoundClues    []string `json:"foundClues"`
	RedeemedCodes []string `json:"redeemedCodes"`
	Inventory     []string `json:"inventory"`
	ClaimedQuests []string `json:"claimedQuests"`
	QuestDate     string   `json:"questDate"` // YYYY-MM-DD key of the daily quest set
}

var gdataManager *gdata.Manager
var gdataInitialized bool

// InitPersistence initializes the gdata manager for snapshot storage.
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "nftplay",
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

// LoadEffects loads the persisted effect list. A missing snapshot returns
// (nil, nil); the caller falls back to defaults.
func LoadEffects() ([]anim.Effect, error) {
	if !gdataInitialized || gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem("effects")
	if err != nil {
		log.Printf("Warning: Could not load effects: %v", err)
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}

	var effects []anim.Effect
	if err := json.Unmarshal(data, &effects); err != nil {
		log.Printf("Warning: Could not parse saved effects: %v", err)
		return nil, err
	}

	return effects, nil
}

// SaveEffects writes the effect list back as plain JSON.
func SaveEffects(effects []anim.Effect) error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(effects)
	if err != nil {
		log.Printf("Warning: Could not serialize effects: %v", err)
		return err
	}

	if err := gdataManager.SaveItem("effects", data); err != nil {
		log.Printf("Warning: Could not save effects: %v", err)
		return err
	}
	return nil
}

// LoadProgress loads saved game progress, or (nil, nil) when none exists.
func LoadProgress() (*SavedProgress, error) {
	if !gdataInitialized || gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem("progress")
	if err != nil {
		log.Printf("Warning: Could not load game progress: %v", err)
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}

	var progress SavedProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		log.Printf("Warning: Could not parse saved progress: %v", err)
		return nil, err
	}

	return &progress, nil
}

// SaveProgress writes game progress to disk.
func SaveProgress(p *SavedProgress) error {
	if !gdataInitialized || gdataManager == nil || p == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("Warning: Could not serialize game progress: %v", err)
		return err
	}

	if err := gdataManager.SaveItem("progress", data); err != nil {
		log.Printf("Warning: Could not save game progress: %v", err)
		return err
	}
	return nil
}

// ClearProgress removes any saved game progress.
func ClearProgress() error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	if err := gdataManager.SaveItem("progress", nil); err != nil {
		log.Printf("Warning: Could not clear game progress: %v", err)
		return err
	}
	return nil
}
