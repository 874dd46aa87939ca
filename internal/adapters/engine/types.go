package engine

import (
	"github.com/okian/kibitz/internal/domain/board"
	"github.com/okian/kibitz/internal/domain/moments"
)

// Result is the engine's analysis of one board. The wire shape is dynamic
// JSON; modeling it as tagged records with zero-value defaults catches
// shape drift at the boundary instead of deep inside the extractor.
type Result struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	BidAnalysis  []BidEntry           `json:"bid_analysis,omitempty"`
	CardAnalysis map[string]CardEntry `json:"card_analysis,omitempty"`
}

// BidEntry is the engine's verdict on one recorded call.
type BidEntry struct {
	Bid         string         `json:"bid"`
	Quality     float64        `json:"quality"`
	Explanation string         `json:"explanation,omitempty"`
	Candidates  []BidCandidate `json:"candidates,omitempty"`
}

// BidCandidate is one ranked alternative call.
type BidCandidate struct {
	Call        string `json:"call"`
	Explanation string `json:"explanation,omitempty"`
}

// CardEntry is the engine's verdict on one played card. Card holds the
// recommended card; Who marks forced or mandatory-follow positions.
type CardEntry struct {
	Card       string          `json:"card"`
	Who        string          `json:"who,omitempty"`
	Candidates []CardCandidate `json:"candidates,omitempty"`
}

// CardCandidate is one ranked alternative card with its expected score.
type CardCandidate struct {
	Card             string  `json:"card"`
	ExpectedScoreIMP float64 `json:"expected_score_imp"`
}

// ToAnalysis converts the keyed wire result into the ordered view the
// extractor works on. card_analysis is a JSON object keyed by played card,
// so the board's play sequence restores recorded order; cards without an
// analysis entry are carried as empty entries to keep trick counting right.
func (r Result) ToAnalysis(b board.Board) moments.Analysis {
	a := moments.Analysis{Success: r.Success}
	for _, e := range r.BidAnalysis {
		entry := moments.BidEntry{
			Bid:         e.Bid,
			Quality:     e.Quality,
			Explanation: e.Explanation,
		}
		for _, c := range e.Candidates {
			entry.Candidates = append(entry.Candidates, moments.BidCandidate{
				Call:        c.Call,
				Explanation: c.Explanation,
			})
		}
		a.Bids = append(a.Bids, entry)
	}
	for _, played := range b.Play {
		e, ok := r.CardAnalysis[played]
		entry := moments.CardEntry{Played: played}
		if ok {
			entry.Recommended = e.Card
			entry.Who = e.Who
			for _, c := range e.Candidates {
				entry.Candidates = append(entry.Candidates, moments.CardCandidate{
					Card:             c.Card,
					ExpectedScoreIMP: c.ExpectedScoreIMP,
				})
			}
		}
		a.Cards = append(a.Cards, entry)
	}
	return a
}
