package game

import (
	"errors"
	"time"

	"github.com/pixelmint/nftplay/components"
	"github.com/pixelmint/nftplay/content"
)

var (
	ErrUnknownNode   = errors.New("game: unknown dialogue node")
	ErrNoDialogue    = errors.New("game: no dialogue in progress")
	ErrUnknownChoice = errors.New("game: unknown choice")
	ErrChapterLocked = errors.New("game: chapter not unlocked")
)

// unlockFirstFragmentLocked reveals the opening fragment of a chapter, once.
func (s *Session) unlockFirstFragmentLocked(chapter int, at time.Time) {
	for _, ch := range s.tables.Chapters {
		if ch.ID != chapter || len(ch.Fragments) == 0 {
			continue
		}
		s.unlockFragmentLocked(ch.Fragments[0].ID, at)
		return
	}
}

// unlockNextFragmentLocked reveals the first still-locked fragment of the
// current chapter. Mini-game wins feed the story through this.
func (s *Session) unlockNextFragmentLocked(at time.Time) {
	story := components.Story.Get(s.storyEntry)
	for _, ch := range s.tables.Chapters {
		if ch.ID != story.Chapter {
			continue
		}
		for _, frag := range ch.Fragments {
			if !s.fragmentUnlockedLocked(frag.ID) {
				s.unlockFragmentLocked(frag.ID, at)
				return
			}
		}
		return
	}
}

func (s *Session) unlockFragmentLocked(fragID string, at time.Time) {
	if s.fragmentUnlockedLocked(fragID) {
		return
	}
	story := components.Story.Get(s.storyEntry)
	story.UnlockedFragments = append(story.UnlockedFragments, fragID)
	s.pushToast(ToastStory, "A memory fragment surfaces.", at)
}

func (s *Session) fragmentUnlockedLocked(fragID string) bool {
	story := components.Story.Get(s.storyEntry)
	for _, id := range story.UnlockedFragments {
		if id == fragID {
			return true
		}
	}
	return false
}

// UnlockedFragments returns the unlocked fragment definitions in unlock order.
func (s *Session) UnlockedFragments() []content.FragmentDef {
	s.mu.Lock()
	defer s.mu.Unlock()
	story := components.Story.Get(s.storyEntry)
	var out []content.FragmentDef
	for _, id := range story.UnlockedFragments {
		if frag, ok := s.findFragmentLocked(id); ok {
			out = append(out, frag)
		}
	}
	return out
}

func (s *Session) findFragmentLocked(fragID string) (content.FragmentDef, bool) {
	for _, ch := range s.tables.Chapters {
		for _, frag := range ch.Fragments {
			if frag.ID == fragID {
				return frag, true
			}
		}
	}
	return content.FragmentDef{}, false
}

// StartDialogue enters a dialogue node. The node's chapter must be unlocked.
func (s *Session) StartDialogue(nodeID string) (content.NodeDef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return content.NodeDef{}, ErrClosed
	}
	node, chapter, err := s.findNodeLocked(nodeID)
	if err != nil {
		return content.NodeDef{}, err
	}
	story := components.Story.Get(s.storyEntry)
	if chapter > story.Chapter {
		return content.NodeDef{}, ErrChapterLocked
	}
	story.CurrentNode = nodeID
	return node, nil
}

// Choose answers the current dialogue node. Decisions are append-only: the
// record of past choices never rewrites. done reports the scene ending.
func (s *Session) Choose(choiceID string) (next content.NodeDef, done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return content.NodeDef{}, false, ErrClosed
	}
	story := components.Story.Get(s.storyEntry)
	if story.CurrentNode == "" {
		return content.NodeDef{}, false, ErrNoDialogue
	}
	node, _, err := s.findNodeLocked(story.CurrentNode)
	if err != nil {
		return content.NodeDef{}, false, err
	}

	for _, choice := range node.Choices {
		if choice.ID != choiceID {
			continue
		}
		story.Choices = append(story.Choices, components.ChoiceRecord{
			NodeID:   node.ID,
			ChoiceID: choice.ID,
			At:       s.now(),
		})
		if choice.Next == "" {
			story.CurrentNode = ""
			return content.NodeDef{}, true, nil
		}
		nextNode, _, err := s.findNodeLocked(choice.Next)
		if err != nil {
			story.CurrentNode = ""
			return content.NodeDef{}, false, err
		}
		story.CurrentNode = nextNode.ID
		return nextNode, false, nil
	}
	return content.NodeDef{}, false, ErrUnknownChoice
}

// CurrentNode returns the active dialogue node, if any.
func (s *Session) CurrentNode() (content.NodeDef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	story := components.Story.Get(s.storyEntry)
	if story.CurrentNode == "" {
		return content.NodeDef{}, false
	}
	node, _, err := s.findNodeLocked(story.CurrentNode)
	if err != nil {
		return content.NodeDef{}, false
	}
	return node, true
}

// ChoiceLog returns a copy of the recorded dialogue decisions.
func (s *Session) ChoiceLog() []components.ChoiceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	story := components.Story.Get(s.storyEntry)
	out := make([]components.ChoiceRecord, len(story.Choices))
	copy(out, story.Choices)
	return out
}

func (s *Session) findNodeLocked(nodeID string) (content.NodeDef, int, error) {
	for _, ch := range s.tables.Chapters {
		for _, node := range ch.Nodes {
			if node.ID == nodeID {
				return node, ch.ID, nil
			}
		}
	}
	return content.NodeDef{}, 0, ErrUnknownNode
}
