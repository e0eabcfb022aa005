package table

import (
	"github.com/hterui/janban/internal/packets"
	"github.com/hterui/janban/internal/score"
)

// Game is the steady state of a running hand. Riichi declarations, self-draw
// wins, and penalty re-deals resolve in place; ron and exhaustive draws hand
// off to their collection states; a lost seat connection hands off to
// Reconnect.
type Game struct {
	ledger *Ledger
}

func (s *Game) Identifier() string { return "GAME" }
func (s *Game) Prompt() Prompt     { return PromptNone }
func (s *Game) Ledger() *Ledger    { return s.ledger }

func (s *Game) Init(t *Table) State {
	s.broadcastSnapshots(t)
	return nil
}

func (s *Game) OnJoin(t *Table, c Client) State {
	// Unseated connections idle until a reconnect needs them.
	return nil
}

func (s *Game) OnLeave(t *Table, c Client) State {
	return suspendForReconnect(s.ledger, s, c)
}

func (s *Game) OnPacket(t *Table, c Client, p packets.Packet) State {
	seat := s.ledger.SeatOf(c)
	if seat < 0 {
		return nil
	}

	switch p := p.(type) {
	case *packets.Riichi:
		s.ledger.DeclareRiichi(seat)
		s.broadcastSnapshots(t)
	case *packets.Tsumo:
		s.resolveTsumo(t, seat, p)
	case *packets.RonWind:
		return s.startRon(seat, p)
	case *packets.Draw:
		return s.startDraw(seat, p)
	case *packets.Redraw:
		s.ledger.Redraw()
		t.recordHand(HandRecord{
			Hand:          s.ledger.Hand,
			Repeat:        s.ledger.Repeat,
			Outcome:       OutcomeRedraw,
			DiscarderSeat: -1,
		})
		s.broadcastSnapshots(t)
	}
	return nil
}

// resolveTsumo settles a self-draw win in place. The winner first collects
// the riichi pot, then the scored payment plus the honba bonus from every
// other seat. The dealer winning repeats the hand.
func (s *Game) resolveTsumo(t *Table, seat int, p *packets.Tsumo) {
	ledger := s.ledger

	ledger.PayRiichiPot([]int{seat})
	// The pot left the seats when the bets were declared, so deltas are
	// measured after it moves; every resolution sums to zero.
	before := ledger.points()

	winnerWind := ledger.Wind(seat)
	dealerWin := winnerWind == East
	honba := ledger.TotalHonba() * ledger.Options.TsumoHonba
	winner := ledger.Players[seat]

	for other := 0; other < NumSeats; other++ {
		if other == seat {
			continue
		}
		isDealer := ledger.Wind(other) == East
		payment := score.Tsumo(int(p.Han), int(p.FuIndex), dealerWin || isDealer) + honba
		winner.Points += payment
		ledger.Players[other].Points -= payment
	}

	hand := ledger.Hand
	repeat := ledger.Repeat
	deltas := ledger.deltasSince(before)

	if dealerWin {
		ledger.RepeatHand(false)
	} else {
		ledger.NextHand(false)
	}

	for i, player := range ledger.Players {
		t.send(player.Conn, &packets.TsumoResolved{
			WinnerSeat: uint8(seat),
			Hand:       uint16(hand),
			Deltas:     deltas,
			Snapshot:   *ledger.Snapshot(i),
		})
	}

	t.recordHand(HandRecord{
		Hand:          hand,
		Repeat:        repeat,
		Outcome:       OutcomeTsumo,
		WinnerSeats:   []int{seat},
		DiscarderSeat: -1,
		Deltas:        deltasToInts(deltas),
	})
}

// startRon suspends the hand into the ron collection state. The discarder's
// slot is settled at zero; every other seat owes a score.
func (s *Game) startRon(seat int, p *packets.RonWind) State {
	discarderWind := int(p.Seat)
	if discarderWind < 0 || discarderWind >= NumSeats {
		return nil
	}
	// A seat cannot ron its own discard.
	if s.ledger.Wind(seat) == discarderWind {
		return nil
	}

	ron := &Ron{ledger: s.ledger, discarderWind: discarderWind}
	discarderSeat := s.ledger.SeatForWind(discarderWind)
	for i := range ron.scores {
		if i == discarderSeat {
			ron.scores[i] = 0
		} else {
			ron.scores[i] = scorePending
		}
	}
	return ron
}

// startDraw suspends the hand into the tenpai collection state with the
// declarer's slot pre-filled.
func (s *Game) startDraw(seat int, p *packets.Draw) State {
	draw := &Draw{ledger: s.ledger, declarerTenpai: p.Tenpai != 0}
	for i := range draw.tenpai {
		draw.tenpai[i] = tenpaiUnknown
	}
	if p.Tenpai != 0 {
		draw.tenpai[seat] = tenpaiReady
	} else {
		draw.tenpai[seat] = tenpaiNoten
	}
	return draw
}

func (s *Game) broadcastSnapshots(t *Table) {
	for i, player := range s.ledger.Players {
		t.send(player.Conn, s.ledger.Snapshot(i))
	}
}

func deltasToInts(deltas [NumSeats]int16) [NumSeats]int {
	var out [NumSeats]int
	for i, d := range deltas {
		out[i] = int(d)
	}
	return out
}
