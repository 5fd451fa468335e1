// Package content loads the embedded gameplay content tables: daily quests,
// ARG click-pattern clues, secret codes, shop items, and the story tree.
// Numeric tuning lives in package config; this package is data only.
package content

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed quests.yaml clues.yaml codes.yaml shop.yaml story.yaml
var files embed.FS

// QuestMetric names the session counter a quest tracks.
type QuestMetric string

const (
	MetricClicks      QuestMetric = "clicks"
	MetricScore       QuestMetric = "score"
	MetricMaxCombo    QuestMetric = "maxCombo"
	MetricBossDefeats QuestMetric = "bossDefeats"
	MetricGamesWon    QuestMetric = "gamesWon"
)

// QuestDef defines one daily quest.
type QuestDef struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Metric      QuestMetric `yaml:"metric"`
	Requirement int         `yaml:"requirement"`
	Reward      int         `yaml:"reward"`
}

// ClueDef maps an exact click-cell sequence to a one-time clue.
type ClueDef struct {
	ID      string `yaml:"id"`
	Pattern []int  `yaml:"pattern"` // 3x3 grid cells, 1..9
	Text    string `yaml:"text"`
}

// CodeDef maps a secret code to its hidden message. Codes are matched
// case-insensitively; messages are stored obfuscated at runtime.
type CodeDef struct {
	Code    string `yaml:"code"`
	Message string `yaml:"message"`
}

// ItemKind tags a shop item variant.
type ItemKind string

const (
	ItemBoost    ItemKind = "boost"
	ItemCosmetic ItemKind = "cosmetic"
)

// ItemDef defines one shop item. Boost items add Boost to the score
// multiplier while owned.
type ItemDef struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Cost  int      `yaml:"cost"`
	Kind  ItemKind `yaml:"kind"`
	Boost float64  `yaml:"boost"`
}

// ChoiceDef is one selectable dialogue answer.
type ChoiceDef struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
	Next string `yaml:"next"` // next node ID, empty ends the scene
}

// NodeDef is one dialogue node in a chapter.
type NodeDef struct {
	ID      string      `yaml:"id"`
	Speaker string      `yaml:"speaker"`
	Text    string      `yaml:"text"`
	Choices []ChoiceDef `yaml:"choices"`
}

// FragmentDef is an unlockable story fragment.
type FragmentDef struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// ChapterDef groups fragments and dialogue nodes.
type ChapterDef struct {
	ID        int           `yaml:"id"`
	Title     string        `yaml:"title"`
	Fragments []FragmentDef `yaml:"fragments"`
	Nodes     []NodeDef     `yaml:"nodes"`
}

// Tables is the full loaded content set.
type Tables struct {
	Quests   []QuestDef   `yaml:"quests"`
	Clues    []ClueDef    `yaml:"clues"`
	Codes    []CodeDef    `yaml:"codes"`
	Items    []ItemDef    `yaml:"items"`
	Chapters []ChapterDef `yaml:"chapters"`
}

// Load parses every embedded table.
func Load() (*Tables, error) {
	t := &Tables{}
	for _, f := range []string{"quests.yaml", "clues.yaml", "codes.yaml", "shop.yaml", "story.yaml"} {
		data, err := files.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read content %s: %w", f, err)
		}
		if err := yaml.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("parse content %s: %w", f, err)
		}
	}
	return t, nil
}

// MustLoad panics on malformed embedded content. The tables ship inside the
// binary, so a failure here is a build defect, not a runtime condition.
func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic("content: " + err.Error())
	}
	return t
}
