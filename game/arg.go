package game

import (
	"errors"
	"strings"
	"time"

	"github.com/pixelmint/nftplay/components"
	cfg "github.com/pixelmint/nftplay/config"
	"github.com/pixelmint/nftplay/content"
)

// ErrUnknownCode rejects a redeem attempt for a code not in the table.
var ErrUnknownCode = errors.New("game: unknown code")

// quantizeCell maps surface coordinates onto a grid x grid cell numbered
// 1..grid*grid, row-major. Out-of-bounds clicks clamp to the border cells.
func quantizeCell(x, y, w, h float64, grid int) int {
	if w <= 0 || h <= 0 {
		return 1
	}
	col := int(x / w * float64(grid))
	row := int(y / h * float64(grid))
	if col < 0 {
		col = 0
	}
	if col >= grid {
		col = grid - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= grid {
		row = grid - 1
	}
	return row*grid + col + 1
}

// recordPatternLocked pushes cell onto the bounded click window and checks
// every undiscovered clue for a suffix match. At most one clue fires per
// click; each clue fires once per session.
func (s *Session) recordPatternLocked(sess *components.SessionData, cell int, at time.Time) string {
	sess.ClickPattern = append(sess.ClickPattern, cell)
	if over := len(sess.ClickPattern) - cfg.ARG.PatternWindow; over > 0 {
		sess.ClickPattern = sess.ClickPattern[over:]
	}

	for _, clue := range s.clues {
		if s.foundClues[clue.ID] || !suffixMatch(sess.ClickPattern, clue.Pattern) {
			continue
		}
		s.foundClues[clue.ID] = true
		s.pushToast(ToastClue, clue.Text, at)
		return clue.Text
	}
	return ""
}

func suffixMatch(window, pattern []int) bool {
	if len(pattern) == 0 || len(pattern) > len(window) {
		return false
	}
	offset := len(window) - len(pattern)
	for i, cell := range pattern {
		if window[offset+i] != cell {
			return false
		}
	}
	return true
}

// FoundClues returns the IDs of the clues discovered so far.
func (s *Session) FoundClues() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.foundClues))
	for id := range s.foundClues {
		out = append(out, id)
	}
	return out
}

// secretCode holds one code's message obfuscated in memory. The plaintext
// only exists transiently inside RedeemCode; a heap dump of an idle session
// shows cipher bytes, not hidden messages.
type secretCode struct {
	key    string
	cipher []byte
}

func buildCodeTable(defs []content.CodeDef) map[string]secretCode {
	table := make(map[string]secretCode, len(defs))
	for _, def := range defs {
		key := strings.ToUpper(def.Code)
		table[key] = secretCode{key: key, cipher: xorBytes([]byte(def.Message), key)}
	}
	return table
}

// xorBytes is its own inverse: obfuscation and recovery are the same pass.
func xorBytes(data []byte, key string) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// RedeemCode checks a secret code (case-insensitive) and returns its hidden
// message. Redeeming the same code again returns the message without logging
// a second toast.
func (s *Session) RedeemCode(code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	key := strings.ToUpper(strings.TrimSpace(code))
	sc, ok := s.codes[key]
	if !ok {
		return "", ErrUnknownCode
	}
	message := string(xorBytes(sc.cipher, sc.key))
	if !s.redeemed[key] {
		s.redeemed[key] = true
		s.pushToast(ToastClue, message, s.now())
	}
	return message, nil
}

// RedeemedCodes returns the codes redeemed so far (uppercased).
func (s *Session) RedeemedCodes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.redeemed))
	for code := range s.redeemed {
		out = append(out, code)
	}
	return out
}
