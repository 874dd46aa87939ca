package engine

import (
	"fmt"
	"strings"

	"github.com/okian/kibitz/internal/domain/board"
)

const sectionRule = "=================================================="

// Format renders the engine result as the fixed-layout text report embedded
// in narration prompts and returned by the engine-only endpoint.
func Format(r Result, b board.Board) string {
	if !r.Success {
		return "Engine analysis unavailable"
	}

	var sb strings.Builder
	sb.WriteString(sectionRule + "\n")
	sb.WriteString("ENGINE ANALYSIS\n")
	sb.WriteString(sectionRule + "\n")

	sb.WriteString("\n### BIDDING ANALYSIS ###\n\n")
	for i, entry := range r.BidAnalysis {
		recommended := entry.Bid
		explanation := entry.Explanation
		if len(entry.Candidates) > 0 {
			best := entry.Candidates[0]
			if best.Call != "" {
				recommended = best.Call
			}
			if best.Explanation != "" {
				explanation = best.Explanation
			}
		}
		fmt.Fprintf(&sb, "Bid #%d: %s\n", i+1, entry.Bid)
		fmt.Fprintf(&sb, "  Quality: %.2f\n", entry.Quality)
		if entry.Bid != recommended {
			fmt.Fprintf(&sb, "  Engine recommends: %s\n", recommended)
		}
		fmt.Fprintf(&sb, "  Explanation: %s\n\n", explanation)
	}

	sb.WriteString("\n### CARD PLAY ANALYSIS ###\n\n")
	mistakes := 0
	for _, played := range b.Play {
		entry, ok := r.CardAnalysis[played]
		if !ok {
			continue
		}
		if entry.Who == "Forced" || entry.Who == "Follow" {
			continue
		}
		recommended := entry.Card
		if recommended == "" {
			recommended = played
		}
		if played == recommended {
			continue
		}
		fmt.Fprintf(&sb, "MISTAKE: %s played, engine recommends %s\n", played, recommended)
		top := entry.Candidates
		if len(top) > 3 {
			top = top[:3]
		}
		for _, cand := range top {
			fmt.Fprintf(&sb, "   - %s: %+.2f IMPs\n", cand.Card, cand.ExpectedScoreIMP)
		}
		sb.WriteString("\n")
		mistakes++
	}

	if mistakes == 0 {
		sb.WriteString("No significant mistakes found in card play\n")
	} else {
		fmt.Fprintf(&sb, "\nTotal mistakes found: %d\n", mistakes)
	}

	return sb.String()
}
