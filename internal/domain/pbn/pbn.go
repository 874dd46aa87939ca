// Package pbn converts PBN notation into a normalized board record.
//
// Parsing is best-effort and never fails with a hard error: unrecognized or
// malformed lines are ignored and unset fields keep their defaults. Dropped
// auction and play tokens are surfaced as warnings on the Result so callers
// can see what the parser skipped.
package pbn

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okian/kibitz/internal/domain/board"
)

// Result carries the best-effort board plus non-fatal parse warnings.
type Result struct {
	Board    board.Board
	Warnings []string
}

// Tag lines have the exact shape [Word "value"]; escaped quotes are not
// supported by the format subset this service accepts.
var tagRe = regexp.MustCompile(`^\[(\w+)\s+"([^"]*)"\]$`)

// Per-seat deal markers of the form N:cards inside a Deal value.
var seatHandRe = regexp.MustCompile(`([NESW]):([^\s]+)`)

// Parse extracts a board record from PBN text.
func Parse(text string) Result {
	var res Result
	b := &res.Board

	inAuction := false
	inPlay := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := tagRe.FindStringSubmatch(line); m != nil {
			tag, value := strings.ToLower(m[1]), m[2]
			inAuction = false
			inPlay = false
			switch tag {
			case "dealer":
				b.Dealer = strings.ToUpper(value)
			case "vulnerable":
				b.Vuln = parseVulnerable(value)
			case "deal":
				b.Hands = parseDeal(value)
			case "contract":
				b.Contract = value
			case "declarer":
				b.Declarer = strings.ToUpper(value)
			case "result":
				b.Result = value
			case "event":
				b.Event = value
			case "site":
				b.Site = value
			case "date":
				b.Date = value
			case "north":
				b.Players[board.North] = value
			case "east":
				b.Players[board.East] = value
			case "south":
				b.Players[board.South] = value
			case "west":
				b.Players[board.West] = value
			case "auction":
				// The tag value names the auction dealer; the calls follow
				// on subsequent non-tag lines.
				inAuction = true
			case "play":
				inPlay = true
			}
			continue
		}

		switch {
		case inAuction:
			res.collectCalls(line)
		case inPlay:
			res.collectCards(line)
		}
	}

	return res
}

// collectCalls tokenizes one auction line, normalizes the spellings and
// keeps only well-formed calls.
func (r *Result) collectCalls(line string) {
	for _, tok := range strings.Fields(line) {
		call := board.NormalizeCall(tok)
		if board.ValidCall(call) {
			r.Board.Auction = append(r.Board.Auction, call)
			continue
		}
		r.Warnings = append(r.Warnings, fmt.Sprintf("dropped auction token %q", tok))
	}
}

// collectCards tokenizes one play line and keeps only well-formed card tokens.
func (r *Result) collectCards(line string) {
	for _, tok := range strings.Fields(line) {
		card := strings.ToUpper(tok)
		if board.ValidCard(card) {
			r.Board.Play = append(r.Board.Play, card)
			continue
		}
		r.Warnings = append(r.Warnings, fmt.Sprintf("dropped play token %q", tok))
	}
}

// parseVulnerable maps the tag value onto the (NS, EW) pair. Anything
// unrecognized, including "None" and "Love", means neither side vulnerable.
func parseVulnerable(value string) [2]bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "all", "both":
		return [2]bool{true, true}
	case "ns":
		return [2]bool{true, false}
	case "ew":
		return [2]bool{false, true}
	}
	return [2]bool{false, false}
}

// parseDeal splits a Deal tag value into the four hands indexed [N,E,S,W].
//
// Two forms are accepted. When several per-seat markers appear
// ("N:... E:... S:... W:..."), each hand is placed directly. Otherwise a
// single leading "SEAT:" names the first hand's owner and the remaining
// whitespace-separated hands follow clockwise rotation from that seat.
// Hand strings are stored as-is; suit and rank legality is not checked here.
func parseDeal(value string) [4]string {
	var hands [4]string
	value = strings.TrimSpace(value)
	if value == "" {
		return hands
	}

	matches := seatHandRe.FindAllStringSubmatch(value, -1)
	if len(matches) > 1 {
		for _, m := range matches {
			if i := board.SeatIndex(m[1]); i >= 0 {
				hands[i] = m[2]
			}
		}
		return hands
	}

	colon := strings.Index(value, ":")
	if colon != 1 {
		return hands
	}
	start := board.SeatIndex(value[:1])
	if start < 0 {
		return hands
	}
	rest := strings.Fields(value[colon+1:])
	for i, hand := range rest {
		if i >= len(hands) {
			break
		}
		hands[(start+i)%len(hands)] = hand
	}
	return hands
}
