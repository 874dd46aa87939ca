package smoketest

import (
	"fmt"
	"log"
	"strings"
)

// expectedVuln maps the PBN Vulnerable tag to the NS/EW flag pair.
var expectedVuln = map[string][2]bool{
	"None": {false, false},
	"NS":   {true, false},
	"EW":   {false, true},
	"All":  {true, true},
}

// normalizeCall mirrors the server's call normalization for comparison.
func normalizeCall(call string) string {
	c := strings.ToUpper(call)
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

// verifyParsedBoard checks a parse response against the generated deal.
func verifyParsedBoard(d Deal, resp ParseResponse) error {
	if !resp.Success {
		return fmt.Errorf("parse reported failure: %s", resp.Error)
	}
	if len(resp.Warnings) > 0 {
		return fmt.Errorf("unexpected parse warnings: %v", resp.Warnings)
	}
	if resp.Board.Dealer != d.Dealer {
		return fmt.Errorf("dealer mismatch: got %q, want %q", resp.Board.Dealer, d.Dealer)
	}
	if resp.Board.Vuln != expectedVuln[d.Vuln] {
		return fmt.Errorf("vulnerability mismatch for %q: got %v", d.Vuln, resp.Board.Vuln)
	}
	for seat, hand := range resp.Board.Hands {
		if hand != d.Hands[seat] {
			return fmt.Errorf("hand mismatch for seat %s: got %q, want %q", seatLetters[seat], hand, d.Hands[seat])
		}
		if err := verifyHandShape(hand); err != nil {
			return fmt.Errorf("seat %s: %w", seatLetters[seat], err)
		}
	}
	if len(resp.Board.Auction) != len(d.Auction) {
		return fmt.Errorf("auction length mismatch: got %d, want %d", len(resp.Board.Auction), len(d.Auction))
	}
	for i, call := range d.Auction {
		if resp.Board.Auction[i] != normalizeCall(call) {
			return fmt.Errorf("auction call %d: got %q, want %q", i, resp.Board.Auction[i], normalizeCall(call))
		}
	}
	if !strings.Contains(resp.Board.Event, d.ID) {
		return fmt.Errorf("event tag lost the deal ID: %q", resp.Board.Event)
	}
	return nil
}

// verifyHandShape checks the dotted suit form carries exactly 13 cards.
func verifyHandShape(hand string) error {
	suits := strings.Split(hand, ".")
	if len(suits) != 4 {
		return fmt.Errorf("hand %q does not have four suits", hand)
	}
	total := 0
	for _, s := range suits {
		total += len(s)
	}
	if total != handSize {
		return fmt.Errorf("hand %q has %d cards", hand, total)
	}
	return nil
}

// verifyAnalysis checks the moment list invariants of an analyze response.
func verifyAnalysis(resp AnalyzeResponse) error {
	if !resp.Success {
		return fmt.Errorf("analysis reported failure: %s", resp.Error)
	}
	if !resp.BenAvailable {
		// Degraded mode: parsing succeeded but the engine was unreachable.
		// Nothing further to check.
		return nil
	}

	costSum := 0.0
	for i, m := range resp.KeyMoments {
		if m.Type != "bidding" && m.Type != "card_play" {
			return fmt.Errorf("moment %d has unknown type %q", i, m.Type)
		}
		if m.Severity != "minor" && m.Severity != "major" {
			return fmt.Errorf("moment %d has unknown severity %q", i, m.Severity)
		}
		if i > 0 && m.IMPCost > resp.KeyMoments[i-1].IMPCost {
			return fmt.Errorf("moments not sorted by cost: %f after %f", m.IMPCost, resp.KeyMoments[i-1].IMPCost)
		}
		costSum += m.IMPCost
		if m.Type == "card_play" && m.Trick < 1 {
			return fmt.Errorf("moment %d has invalid trick %d", i, m.Trick)
		}
	}
	if resp.TotalMistakes != len(resp.KeyMoments) {
		return fmt.Errorf("total_mistakes %d does not match %d moments", resp.TotalMistakes, len(resp.KeyMoments))
	}
	if diff := resp.TotalIMPCost - costSum; diff > 0.01 || diff < -0.01 {
		return fmt.Errorf("total_imp_cost %.2f does not match moment sum %.2f", resp.TotalIMPCost, costSum)
	}
	return nil
}

// displayMoments shows the most expensive moments from an analysis.
func displayMoments(resp AnalyzeResponse) {
	topN := TopMomentsDisplayed
	if len(resp.KeyMoments) < topN {
		topN = len(resp.KeyMoments)
	}
	if topN == 0 {
		log.Println("   No key moments reported")
		return
	}
	log.Printf("   Top %d key moments:", topN)
	for i := 0; i < topN; i++ {
		m := resp.KeyMoments[i]
		log.Printf("   %d. [%s/%s] trick %d, cost %.2f IMPs", i+1, m.Type, m.Severity, m.Trick, m.IMPCost)
	}
}
