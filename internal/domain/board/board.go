// Package board contains the canonical in-memory representation of one deal.
package board

import (
	"strings"
)

// Seat indexes into Board.Hands. Order is the clockwise deal rotation.
const (
	North = iota
	East
	South
	West
)

// SeatLetters lists seat letters in hand-array order.
var SeatLetters = [4]string{"N", "E", "S", "W"}

// SeatNames lists full seat names in hand-array order.
var SeatNames = [4]string{"North", "East", "South", "West"}

// Rank alphabet accepted in play tokens.
const Ranks = "23456789TJQKA"

// Suit letters accepted in play tokens.
const Suits = "SHDC"

// Board is one dealt hand of bridge: four hands, the dealer, vulnerability,
// the auction and the card play, plus optional record metadata.
// Field names mirror the wire shape consumed by the analysis engine.
type Board struct {
	Dealer string `json:"dealer"`
	// Vuln is (NS-vulnerable, EW-vulnerable).
	Vuln [2]bool `json:"vuln"`
	// Hands is indexed [N,E,S,W]; each entry is a suit-segmented card
	// string "spades.hearts.diamonds.clubs". A segment may be empty (void).
	Hands   [4]string `json:"hands"`
	Auction []string  `json:"auction"`
	// Play holds 2-character card tokens: suit letter then rank letter.
	Play []string `json:"play"`

	Event    string    `json:"event,omitempty"`
	Site     string    `json:"site,omitempty"`
	Date     string    `json:"date,omitempty"`
	Players  [4]string `json:"players,omitempty"`
	Contract string    `json:"contract,omitempty"`
	Declarer string    `json:"declarer,omitempty"`
	Result   string    `json:"result,omitempty"`
}

// HasHands reports whether the board carries a populated deal. The North
// hand doubles as the parse-success signal.
func (b *Board) HasHands() bool {
	return b.Hands[North] != ""
}

// VulnString renders vulnerability for one side as "Vul" or "NV".
func VulnString(vulnerable bool) string {
	if vulnerable {
		return "Vul"
	}
	return "NV"
}

// SeatIndex maps a seat letter to its hand-array index, or -1.
func SeatIndex(letter string) int {
	switch strings.ToUpper(letter) {
	case "N":
		return North
	case "E":
		return East
	case "S":
		return South
	case "W":
		return West
	}
	return -1
}

// ValidCall reports whether token is an accepted auction call:
// PASS, X, XX, or level 1-7 plus strain C/D/H/S/N.
func ValidCall(token string) bool {
	switch token {
	case "PASS", "X", "XX":
		return true
	}
	if len(token) != 2 {
		return false
	}
	if token[0] < '1' || token[0] > '7' {
		return false
	}
	return strings.ContainsRune("CDHSN", rune(token[1]))
}

// ValidCard reports whether token is a well-formed 2-character card token.
func ValidCard(token string) bool {
	if len(token) != 2 {
		return false
	}
	return strings.ContainsRune(Suits, rune(token[0])) &&
		strings.ContainsRune(Ranks, rune(token[1]))
}

// NormalizeCall maps PBN spellings onto canonical calls: P/PASS -> PASS,
// DBL/DOUBLE -> X, RDBL/REDOUBLE -> XX, and the long notrump form
// 1NT..7NT -> 1N..7N. Other tokens are uppercased as-is.
func NormalizeCall(token string) string {
	c := strings.ToUpper(token)
	switch c {
	case "P", "PASS":
		return "PASS"
	case "DBL", "DOUBLE":
		return "X"
	case "RDBL", "REDOUBLE":
		return "XX"
	}
	if len(c) == 3 && strings.HasSuffix(c, "NT") && c[0] >= '1' && c[0] <= '7' {
		return c[:2]
	}
	return c
}
