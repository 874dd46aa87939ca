package smoketest

import (
	"context"
	"crypto/rand"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/kibitz/pkg/logger"
)

// Card deck constants. Ranks are listed high to low so sorted hands read
// the way PBN deal strings conventionally do.
const (
	deckRanks = "AKQJT98765432"
	deckSuits = "SHDC"
	handSize  = 13
)

var seatLetters = [4]string{"N", "E", "S", "W"}

var vulnerabilities = [4]string{"None", "NS", "EW", "All"}

// Sample complete auctions. Each ends with three passes so the generated
// record is a finished board. The doubled auction deliberately uses the
// long-form call to exercise call normalization server side.
var sampleAuctions = [][]string{
	{"1NT", "Pass", "Pass", "Pass"},
	{"Pass", "1S", "Pass", "2S", "Pass", "Pass", "Pass"},
	{"1H", "Dbl", "Pass", "Pass", "Pass"},
	{"Pass", "Pass", "Pass", "Pass"},
	{"1C", "Pass", "1D", "Pass", "1NT", "Pass", "3NT", "Pass", "Pass", "Pass"},
}

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateDeals creates the requested number of randomly dealt boards.
func generateDeals(ctx context.Context, config *Config, stats *Stats) ([]Deal, error) {
	logger.Get().Info(ctx, "generating boards", logger.Int("numBoards", config.NumBoards))

	deals := make([]Deal, 0, config.NumBoards)
	for i := 0; i < config.NumBoards; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		deals = append(deals, generateSingleDeal(i+1))
	}

	stats.BoardsGenerated = len(deals)
	logger.Get().Info(ctx, "generated boards successfully", logger.Int("count", len(deals)))
	return deals, nil
}

// generateSingleDeal shuffles a full deck and renders one PBN record.
func generateSingleDeal(boardNum int) Deal {
	deck := make([]string, 0, len(deckRanks)*len(deckSuits))
	for _, s := range deckSuits {
		for _, r := range deckRanks {
			deck = append(deck, string(s)+string(r))
		}
	}
	// Fisher-Yates with crypto/rand
	for i := len(deck) - 1; i > 0; i-- {
		j := randomInt(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}

	var hands [4]string
	for seat := 0; seat < 4; seat++ {
		hands[seat] = formatHand(deck[seat*handSize : (seat+1)*handSize])
	}

	dealer := seatLetters[randomInt(4)]
	vuln := vulnerabilities[randomInt(4)]
	auction := sampleAuctions[randomInt(len(sampleAuctions))]

	d := Deal{
		ID:      uuid.New().String(),
		Dealer:  dealer,
		Vuln:    vuln,
		Hands:   hands,
		Auction: auction,
	}
	d.PBN = renderPBN(d, boardNum)
	return d
}

// formatHand groups 13 cards into the dotted suit form, ranks high to low.
func formatHand(cards []string) string {
	bySuit := map[byte][]byte{}
	for _, c := range cards {
		bySuit[c[0]] = append(bySuit[c[0]], c[1])
	}
	parts := make([]string, 0, 4)
	for i := 0; i < len(deckSuits); i++ {
		ranks := bySuit[deckSuits[i]]
		sort.Slice(ranks, func(a, b int) bool {
			return strings.IndexByte(deckRanks, ranks[a]) < strings.IndexByte(deckRanks, ranks[b])
		})
		parts = append(parts, string(ranks))
	}
	return strings.Join(parts, ".")
}

// renderPBN writes the deal as a PBN record with a unique Event tag.
func renderPBN(d Deal, boardNum int) string {
	var sb strings.Builder
	sb.WriteString("[Event \"Smoke " + d.ID + "\"]\n")
	sb.WriteString("[Site \"smoketest\"]\n")
	sb.WriteString("[Date \"" + time.Now().UTC().Format("2006.01.02") + "\"]\n")
	sb.WriteString("[Board \"" + strconv.Itoa(boardNum) + "\"]\n")
	sb.WriteString("[Dealer \"" + d.Dealer + "\"]\n")
	sb.WriteString("[Vulnerable \"" + d.Vuln + "\"]\n")
	sb.WriteString("[Deal \"N:" + d.Hands[0] + " " + d.Hands[1] + " " + d.Hands[2] + " " + d.Hands[3] + "\"]\n")
	sb.WriteString("[Auction \"" + d.Dealer + "\"]\n")
	sb.WriteString(strings.Join(d.Auction, " ") + "\n")
	return sb.String()
}
