package narrator

import (
	"fmt"
	"strings"

	"github.com/okian/kibitz/internal/domain/board"
	"github.com/okian/kibitz/internal/domain/moments"
)

// Play sequences longer than this are truncated on the long-report path so
// the board summary stays compact; the engine text already covers the play.
const maxPromptPlayCards = 20

// PromptOptions shape the assembled prompt.
type PromptOptions struct {
	// EngineText embeds the formatted engine analysis when present.
	EngineText string
	// Moments embeds the extracted key moments when present.
	Moments []moments.Moment
	// TruncatePlay cuts the play line to the first 20 cards with an
	// ellipsis marker. Used by the full-report path.
	TruncatePlay bool
}

// BuildPrompt assembles the natural-language prompt sent to the
// text-generation collaborator.
func BuildPrompt(b board.Board, opts PromptOptions) string {
	var sb strings.Builder

	withEngine := opts.EngineText != ""
	if withEngine {
		sb.WriteString("You are an expert bridge analyst with access to a world-class bridge engine.\n\n")
	} else {
		sb.WriteString("You are an expert bridge analyst. Analyze this board:\n\n")
	}

	writeBoardInfo(&sb, b, opts.TruncatePlay)

	if withEngine {
		sb.WriteString("\n")
		sb.WriteString(opts.EngineText)
		sb.WriteString("\n")
	}
	if len(opts.Moments) > 0 {
		sb.WriteString("\n")
		writeMoments(&sb, opts.Moments)
	}

	if withEngine {
		sb.WriteString(`
Using the engine's analysis, provide:
1. Summary of bidding mistakes (if any)
2. Explain WHY the engine's card play recommendations are better
3. Calculate total IMP cost of mistakes
4. Key lessons from this hand
5. Rate declarer's play 1-10

Explain the engine's insights in simple, human-understandable terms.
`)
	} else {
		sb.WriteString(`
Provide:
1. Bidding analysis - any mistakes?
2. Card play analysis - any errors?
3. Optimal line of play
4. Expected tricks for declarer
5. Overall assessment

Be specific about mistakes and improvements.
`)
	}

	return sb.String()
}

func writeBoardInfo(sb *strings.Builder, b board.Board, truncatePlay bool) {
	fmt.Fprintf(sb, "**Dealer:** %s\n", b.Dealer)
	fmt.Fprintf(sb, "**Vulnerability:** NS=%s, EW=%s\n\n",
		board.VulnString(b.Vuln[0]), board.VulnString(b.Vuln[1]))

	sb.WriteString("**Hands (Spades.Hearts.Diamonds.Clubs):**\n")
	for i, name := range board.SeatNames {
		fmt.Fprintf(sb, "- %s: %s\n", name, b.Hands[i])
	}

	fmt.Fprintf(sb, "\n**Auction:** %s\n", strings.Join(b.Auction, " - "))

	play := b.Play
	ellipsis := ""
	if truncatePlay && len(play) > maxPromptPlayCards {
		play = play[:maxPromptPlayCards]
		ellipsis = " ..."
	}
	fmt.Fprintf(sb, "\n**Play:** %s%s\n", strings.Join(play, " "), ellipsis)
}

func writeMoments(sb *strings.Builder, moms []moments.Moment) {
	sb.WriteString("**Key Moments (ranked by cost):**\n")
	var totalIMP float64
	for _, m := range moms {
		if m.Kind == moments.KindBidding {
			fmt.Fprintf(sb, "- Bid #%d: %s, engine recommends %s [%s]\n",
				m.Position, m.Played, m.Recommended, m.Severity)
			continue
		}
		fmt.Fprintf(sb, "- Trick %d: %s played, engine recommends %s (%+.1f IMP) [%s]",
			m.Trick, m.Played, m.Recommended, m.IMPCost, m.Severity)
		if len(m.Alternatives) > 0 {
			alts := make([]string, 0, len(m.Alternatives))
			for _, a := range m.Alternatives {
				alts = append(alts, fmt.Sprintf("%s(%+.2f)", a.Action, a.IMP))
			}
			fmt.Fprintf(sb, " alternatives: %s", strings.Join(alts, " "))
		}
		sb.WriteString("\n")
		totalIMP += m.IMPCost
	}
	fmt.Fprintf(sb, "Total IMP cost of mistakes: %.1f\n", totalIMP)
}
