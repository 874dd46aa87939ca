package board_test

import (
	"testing"

	board "github.com/okian/kibitz/internal/domain/board"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeatIndex(t *testing.T) {
	Convey("Given seat letters", t, func() {
		So(board.SeatIndex("N"), ShouldEqual, board.North)
		So(board.SeatIndex("e"), ShouldEqual, board.East)
		So(board.SeatIndex("S"), ShouldEqual, board.South)
		So(board.SeatIndex("w"), ShouldEqual, board.West)

		Convey("Then anything else should map to -1", func() {
			So(board.SeatIndex("X"), ShouldEqual, -1)
			So(board.SeatIndex(""), ShouldEqual, -1)
		})
	})
}

func TestValidCall(t *testing.T) {
	Convey("Given auction call tokens", t, func() {
		Convey("Then canonical calls should be accepted", func() {
			for _, call := range []string{"PASS", "X", "XX", "1C", "3N", "7S", "4H", "2D"} {
				So(board.ValidCall(call), ShouldBeTrue)
			}
		})

		Convey("Then malformed calls should be rejected", func() {
			for _, call := range []string{"", "0C", "8H", "1T", "1NT", "pass", "NT"} {
				So(board.ValidCall(call), ShouldBeFalse)
			}
		})
	})
}

func TestValidCard(t *testing.T) {
	Convey("Given play tokens", t, func() {
		Convey("Then suit-then-rank pairs should be accepted", func() {
			for _, card := range []string{"SA", "H2", "DT", "CK"} {
				So(board.ValidCard(card), ShouldBeTrue)
			}
		})

		Convey("Then anything else should be rejected", func() {
			for _, card := range []string{"", "S", "AS", "S1", "XK", "SAK"} {
				So(board.ValidCard(card), ShouldBeFalse)
			}
		})
	})
}

func TestNormalizeCall(t *testing.T) {
	Convey("Given PBN call spellings", t, func() {
		cases := map[string]string{
			"p":        "PASS",
			"Pass":     "PASS",
			"dbl":      "X",
			"Double":   "X",
			"RDBL":     "XX",
			"redouble": "XX",
			"1nt":      "1N",
			"7NT":      "7N",
			"1s":       "1S",
			"3N":       "3N",
			"8NT":      "8NT",
		}
		for in, want := range cases {
			So(board.NormalizeCall(in), ShouldEqual, want)
		}
	})
}

func TestBoardHelpers(t *testing.T) {
	Convey("Given a board", t, func() {
		var b board.Board

		Convey("Then an empty deal should report no hands", func() {
			So(b.HasHands(), ShouldBeFalse)
		})

		Convey("Then a populated North hand should flip the signal", func() {
			b.Hands[board.North] = "AKQJ.T98.765.432"
			So(b.HasHands(), ShouldBeTrue)
		})
	})

	Convey("Given vulnerability flags", t, func() {
		So(board.VulnString(true), ShouldEqual, "Vul")
		So(board.VulnString(false), ShouldEqual, "NV")
	})
}
