// Package moments identifies bidding and card-play decisions where the
// recorded action differs from the engine's top recommendation, computes an
// IMP cost for each and ranks them by descending cost.
package moments

import (
	"math"
	"sort"
)

// Moment kinds.
const (
	KindBidding  = "bidding"
	KindCardPlay = "card_play"
)

// Severity levels.
const (
	SeverityMinor = "minor"
	SeverityMajor = "major"
)

// Analysis is the extractor's view of an engine result. Cards must be in
// recorded play order; the engine's own response keys them by card, so the
// adapter restores ordering before extraction.
type Analysis struct {
	Success bool
	Bids    []BidEntry
	Cards   []CardEntry
}

// BidEntry is the engine's analysis of one recorded call.
type BidEntry struct {
	Bid         string
	Quality     float64
	Explanation string
	Candidates  []BidCandidate
}

// BidCandidate is one ranked alternative call.
type BidCandidate struct {
	Call        string
	Explanation string
}

// CardEntry is the engine's analysis of one recorded card.
type CardEntry struct {
	Played      string
	Recommended string
	// Who marks forced or mandatory-follow positions; those entries never
	// produce a moment.
	Who        string
	Candidates []CardCandidate
}

// CardCandidate is one ranked alternative card with its expected score.
type CardCandidate struct {
	Card             string
	ExpectedScoreIMP float64
}

// Alternative is a ranked candidate action carried on a moment.
type Alternative struct {
	Action string  `json:"action"`
	IMP    float64 `json:"imp"`
}

// Moment is one flagged decision.
type Moment struct {
	Kind     string `json:"type"`
	Position int    `json:"position"`
	// Trick is set for card-play moments only: ceil(position/4).
	Trick       int    `json:"trick,omitempty"`
	Played      string `json:"played"`
	Recommended string `json:"recommended"`
	// IMPCost is the penalty of the recorded action vs the recommendation.
	// Bidding cost is not quantified and stays 0.
	IMPCost      float64       `json:"imp_cost"`
	Severity     string        `json:"severity"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// Default extraction thresholds.
const (
	defaultMinCardCost   = 0.5
	defaultMajorCardCost = 2.0
	defaultMinBidQuality = 0.8
	defaultMaxAlts       = 4
)

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithMinCardCost sets the cost a card-play mismatch must exceed to be kept.
func WithMinCardCost(cost float64) Option {
	return func(e *Extractor) {
		if cost >= 0 {
			e.minCardCost = cost
		}
	}
}

// WithMajorCardCost sets the cost above which a card-play moment is major.
func WithMajorCardCost(cost float64) Option {
	return func(e *Extractor) {
		if cost > 0 {
			e.majorCardCost = cost
		}
	}
}

// WithMinBidQuality sets the quality below which a bidding moment is major.
func WithMinBidQuality(quality float64) Option {
	return func(e *Extractor) {
		if quality > 0 {
			e.minBidQuality = quality
		}
	}
}

// WithMaxAlternatives caps the candidate actions carried on a moment.
func WithMaxAlternatives(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxAlts = n
		}
	}
}

// Extractor derives ranked key moments from an engine analysis.
type Extractor struct {
	minCardCost   float64
	majorCardCost float64
	minBidQuality float64
	maxAlts       int
}

// New creates an Extractor with the given options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		minCardCost:   defaultMinCardCost,
		majorCardCost: defaultMajorCardCost,
		minBidQuality: defaultMinBidQuality,
		maxAlts:       defaultMaxAlts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the key moments of an analysis ordered by descending
// cost. The sort is stable, so zero-cost bidding moments keep their
// relative order after all positive-cost card-play moments.
func (e *Extractor) Extract(a Analysis) []Moment {
	if !a.Success {
		return nil
	}

	var out []Moment
	out = append(out, e.biddingMoments(a.Bids)...)
	out = append(out, e.cardMoments(a.Cards)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IMPCost > out[j].IMPCost
	})
	return out
}

func (e *Extractor) biddingMoments(bids []BidEntry) []Moment {
	var out []Moment
	for i, entry := range bids {
		if len(entry.Candidates) == 0 {
			continue
		}
		best := entry.Candidates[0]
		if entry.Bid == best.Call {
			continue
		}
		severity := SeverityMinor
		if entry.Quality < e.minBidQuality {
			severity = SeverityMajor
		}
		out = append(out, Moment{
			Kind:        KindBidding,
			Position:    i + 1,
			Played:      entry.Bid,
			Recommended: best.Call,
			IMPCost:     0,
			Severity:    severity,
		})
	}
	return out
}

func (e *Extractor) cardMoments(cards []CardEntry) []Moment {
	var out []Moment
	for i, entry := range cards {
		trick := i/4 + 1
		if entry.Who == "Forced" || entry.Who == "Follow" {
			continue
		}
		if entry.Played == entry.Recommended || entry.Recommended == "" {
			continue
		}
		cost := e.cardCost(entry)
		if cost <= e.minCardCost {
			continue
		}
		severity := SeverityMinor
		if cost > e.majorCardCost {
			severity = SeverityMajor
		}
		out = append(out, Moment{
			Kind:         KindCardPlay,
			Position:     i + 1,
			Trick:        trick,
			Played:       entry.Played,
			Recommended:  entry.Recommended,
			IMPCost:      cost,
			Severity:     severity,
			Alternatives: e.alternatives(entry.Candidates),
		})
	}
	return out
}

// cardCost is the recommended candidate's expected score minus the played
// card's. A card absent from the candidate list contributes 0.
func (e *Extractor) cardCost(entry CardEntry) float64 {
	var played, recommended float64
	for _, c := range entry.Candidates {
		switch c.Card {
		case entry.Played:
			played = c.ExpectedScoreIMP
		case entry.Recommended:
			recommended = c.ExpectedScoreIMP
		}
	}
	return recommended - played
}

func (e *Extractor) alternatives(candidates []CardCandidate) []Alternative {
	n := len(candidates)
	if n > e.maxAlts {
		n = e.maxAlts
	}
	alts := make([]Alternative, 0, n)
	for _, c := range candidates[:n] {
		alts = append(alts, Alternative{
			Action: c.Card,
			IMP:    round2(c.ExpectedScoreIMP),
		})
	}
	return alts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Totals reports the moment count and the summed IMP cost.
func Totals(moments []Moment) (int, float64) {
	var imp float64
	for _, m := range moments {
		imp += m.IMPCost
	}
	return len(moments), imp
}
