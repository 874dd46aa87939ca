package narrator_test

import (
	"strings"
	"testing"

	narrator "github.com/okian/kibitz/internal/adapters/narrator"
	"github.com/okian/kibitz/internal/domain/board"
	"github.com/okian/kibitz/internal/domain/moments"
	. "github.com/smartystreets/goconvey/convey"
)

func promptBoard() board.Board {
	var b board.Board
	b.Dealer = "S"
	b.Vuln = [2]bool{true, false}
	b.Hands[board.North] = "AKQJ.T98.765.432"
	b.Hands[board.East] = "T98.765.432.AKQJ"
	b.Hands[board.South] = "765.432.AKQJ.T98"
	b.Hands[board.West] = "432.AKQJ.T98.765"
	b.Auction = []string{"1N", "PASS", "3N", "PASS", "PASS", "PASS"}
	b.Play = []string{"SA", "S2", "S3", "S4"}
	return b
}

func TestBuildPrompt(t *testing.T) {
	Convey("Given a board without engine context", t, func() {
		prompt := narrator.BuildPrompt(promptBoard(), narrator.PromptOptions{})

		Convey("Then the standalone-analyst framing should be used", func() {
			So(prompt, ShouldStartWith, "You are an expert bridge analyst. Analyze this board:")
			So(prompt, ShouldContainSubstring, "Optimal line of play")
			So(prompt, ShouldNotContainSubstring, "world-class bridge engine")
		})

		Convey("Then the board summary should be complete", func() {
			So(prompt, ShouldContainSubstring, "**Dealer:** S")
			So(prompt, ShouldContainSubstring, "**Vulnerability:** NS=Vul, EW=NV")
			So(prompt, ShouldContainSubstring, "- North: AKQJ.T98.765.432")
			So(prompt, ShouldContainSubstring, "- West: 432.AKQJ.T98.765")
			So(prompt, ShouldContainSubstring, "**Auction:** 1N - PASS - 3N - PASS - PASS - PASS")
			So(prompt, ShouldContainSubstring, "**Play:** SA S2 S3 S4")
		})
	})

	Convey("Given engine text and key moments", t, func() {
		opts := narrator.PromptOptions{
			EngineText: "ENGINE ANALYSIS GOES HERE",
			Moments: []moments.Moment{
				{
					Kind:        moments.KindCardPlay,
					Position:    6,
					Trick:       2,
					Played:      "H2",
					Recommended: "HA",
					IMPCost:     1.5,
					Severity:    moments.SeverityMinor,
					Alternatives: []moments.Alternative{
						{Action: "HA", IMP: 1.5},
						{Action: "H2", IMP: 0},
					},
				},
				{
					Kind:        moments.KindBidding,
					Position:    3,
					Played:      "2H",
					Recommended: "1N",
					Severity:    moments.SeverityMajor,
				},
			},
		}
		prompt := narrator.BuildPrompt(promptBoard(), opts)

		Convey("Then the engine-aware framing should be used", func() {
			So(prompt, ShouldStartWith, "You are an expert bridge analyst with access to a world-class bridge engine.")
			So(prompt, ShouldContainSubstring, "ENGINE ANALYSIS GOES HERE")
			So(prompt, ShouldContainSubstring, "Rate declarer's play 1-10")
		})

		Convey("Then the moments should be rendered with costs", func() {
			So(prompt, ShouldContainSubstring, "**Key Moments (ranked by cost):**")
			So(prompt, ShouldContainSubstring, "- Trick 2: H2 played, engine recommends HA (+1.5 IMP) [minor]")
			So(prompt, ShouldContainSubstring, "alternatives: HA(+1.50) H2(+0.00)")
			So(prompt, ShouldContainSubstring, "- Bid #3: 2H, engine recommends 1N [major]")
			So(prompt, ShouldContainSubstring, "Total IMP cost of mistakes: 1.5")
		})
	})
}

func TestBuildPromptTruncation(t *testing.T) {
	Convey("Given a board with a long play sequence", t, func() {
		b := promptBoard()
		b.Play = nil
		for i := 0; i < 26; i++ {
			b.Play = append(b.Play, "S2")
		}

		Convey("When truncation is requested", func() {
			prompt := narrator.BuildPrompt(b, narrator.PromptOptions{TruncatePlay: true})

			Convey("Then only the first twenty cards should appear", func() {
				line := playLine(prompt)
				So(line, ShouldEndWith, "...")
				So(strings.Count(line, "S2"), ShouldEqual, 20)
			})
		})

		Convey("When truncation is not requested", func() {
			prompt := narrator.BuildPrompt(b, narrator.PromptOptions{})

			Convey("Then the whole sequence should appear", func() {
				So(strings.Count(playLine(prompt), "S2"), ShouldEqual, 26)
			})
		})
	})
}

func playLine(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "**Play:**") {
			return line
		}
	}
	return ""
}
