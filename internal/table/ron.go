package table

import (
	"github.com/hterui/janban/internal/packets"
	"github.com/hterui/janban/internal/score"
)

// scorePending marks a ron slot that has not received its RonScore yet.
const scorePending = -1

// Ron collects a score from every seat other than the discarder after a
// discard win is declared. Responses arrive in no guaranteed order, so the
// state completes on a slot check rather than a count of messages.
type Ron struct {
	ledger        *Ledger
	discarderWind int
	// scores is indexed by seat: scorePending awaiting a response, zero "I
	// do not win", positive a winning score in hundreds.
	scores [NumSeats]int
}

func (s *Ron) Identifier() string { return "RON" }
func (s *Ron) Prompt() Prompt     { return PromptRonScore }
func (s *Ron) Ledger() *Ledger    { return s.ledger }

func (s *Ron) Init(t *Table) State {
	for seat, slot := range s.scores {
		if slot != scorePending {
			continue
		}
		prompt, _ := s.PendingPrompt(seat)
		t.send(s.ledger.Players[seat].Conn, prompt)
	}
	return nil
}

func (s *Ron) OnJoin(t *Table, c Client) State {
	return nil
}

func (s *Ron) OnLeave(t *Table, c Client) State {
	return suspendForReconnect(s.ledger, s, c)
}

func (s *Ron) OnPacket(t *Table, c Client, p packets.Packet) State {
	seat := s.ledger.SeatOf(c)
	if seat < 0 {
		return nil
	}
	submission, ok := p.(*packets.RonScore)
	if !ok {
		return nil
	}
	// The discarder's slot is settled at zero and stays that way.
	if seat == s.ledger.SeatForWind(s.discarderWind) {
		return nil
	}

	isDealer := s.ledger.Wind(seat) == East
	s.scores[seat] = score.Ron(int(submission.Han), int(submission.FuIndex), isDealer)
	return s.resolveIfComplete(t)
}

// PendingPrompt returns the prompt owed to a seat, used both at Init and to
// replay the prompt to a seat that reconnects mid-collection.
func (s *Ron) PendingPrompt(seat int) (packets.Packet, bool) {
	if s.scores[seat] != scorePending {
		return nil, false
	}
	prompt := &packets.RonPrompt{Seat: uint8(s.discarderWind)}
	if s.ledger.Wind(seat) == East {
		prompt.IsDealer = 1
	}
	return prompt, true
}

func (s *Ron) resolveIfComplete(t *Table) State {
	for _, slot := range s.scores {
		if slot == scorePending {
			return nil
		}
	}

	ledger := s.ledger
	hand := ledger.Hand
	repeat := ledger.Repeat
	discarderSeat := ledger.SeatForWind(s.discarderWind)

	var winners []int
	for seat, slot := range s.scores {
		if slot > 0 {
			winners = append(winners, seat)
		}
	}

	var deltas [NumSeats]int16
	if len(winners) == 0 {
		// Every seat declined: the hand ends with no payout, advancing as a
		// plain draw with the honba and riichi pot carried forward.
		ledger.NextHand(true)
	} else {
		ledger.PayRiichiPot(winners)
		// The pot left the seats when the bets were declared, so deltas are
		// measured after it moves; every resolution sums to zero.
		before := ledger.points()

		discarder := ledger.PlayerForWind(s.discarderWind)
		honba := ledger.TotalHonba() * ledger.Options.RonHonba
		for _, seat := range winners {
			payment := s.scores[seat] + honba
			ledger.Players[seat].Points += payment
			discarder.Points -= payment
		}
		deltas = ledger.deltasSince(before)

		if s.dealerWon(winners) {
			ledger.RepeatHand(false)
		} else {
			ledger.NextHand(false)
		}
	}

	for i, player := range ledger.Players {
		t.send(player.Conn, &packets.RonResolved{
			DiscarderSeat: uint8(s.discarderWind),
			Hand:          uint16(hand),
			Deltas:        deltas,
			Snapshot:      *ledger.Snapshot(i),
		})
	}

	t.recordHand(HandRecord{
		Hand:          hand,
		Repeat:        repeat,
		Outcome:       OutcomeRon,
		WinnerSeats:   winners,
		DiscarderSeat: discarderSeat,
		Deltas:        deltasToInts(deltas),
	})

	return &Game{ledger: ledger}
}

func (s *Ron) dealerWon(winners []int) bool {
	dealerSeat := s.ledger.SeatForWind(East)
	for _, seat := range winners {
		if seat == dealerSeat {
			return true
		}
	}
	return false
}
