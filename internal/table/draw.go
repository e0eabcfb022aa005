package table

import "github.com/hterui/janban/internal/packets"

// tenpaiFlag is a draw slot's value.
type tenpaiFlag uint8

const (
	tenpaiUnknown tenpaiFlag = iota
	tenpaiReady
	tenpaiNoten
)

// Draw collects a readiness report from every seat after an exhaustive draw
// is declared, then splits the draw pot between ready and unready seats.
type Draw struct {
	ledger         *Ledger
	declarerTenpai bool
	// tenpai is indexed by seat.
	tenpai [NumSeats]tenpaiFlag
}

func (s *Draw) Identifier() string { return "DRAW" }
func (s *Draw) Prompt() Prompt     { return PromptDrawTenpai }
func (s *Draw) Ledger() *Ledger    { return s.ledger }

func (s *Draw) Init(t *Table) State {
	for seat, slot := range s.tenpai {
		if slot != tenpaiUnknown {
			continue
		}
		prompt, _ := s.PendingPrompt(seat)
		t.send(s.ledger.Players[seat].Conn, prompt)
	}
	return nil
}

func (s *Draw) OnJoin(t *Table, c Client) State {
	return nil
}

func (s *Draw) OnLeave(t *Table, c Client) State {
	return suspendForReconnect(s.ledger, s, c)
}

func (s *Draw) OnPacket(t *Table, c Client, p packets.Packet) State {
	seat := s.ledger.SeatOf(c)
	if seat < 0 {
		return nil
	}
	report, ok := p.(*packets.Draw)
	if !ok {
		return nil
	}

	if report.Tenpai != 0 {
		s.tenpai[seat] = tenpaiReady
	} else {
		s.tenpai[seat] = tenpaiNoten
	}
	return s.resolveIfComplete(t)
}

// PendingPrompt returns the prompt owed to a seat that has not reported yet.
func (s *Draw) PendingPrompt(seat int) (packets.Packet, bool) {
	if s.tenpai[seat] != tenpaiUnknown {
		return nil, false
	}
	prompt := &packets.TenpaiPrompt{}
	if s.declarerTenpai {
		prompt.Tenpai = 1
	}
	return prompt, true
}

func (s *Draw) resolveIfComplete(t *Table) State {
	for _, slot := range s.tenpai {
		if slot == tenpaiUnknown {
			return nil
		}
	}

	ledger := s.ledger
	before := ledger.points()
	hand := ledger.Hand
	repeat := ledger.Repeat

	ready := 0
	for _, slot := range s.tenpai {
		if slot == tenpaiReady {
			ready++
		}
	}
	if 0 < ready && ready < NumSeats {
		s.splitPot(ready)
	}

	dealerReady := s.tenpai[ledger.SeatForWind(East)] == tenpaiReady
	deltas := ledger.deltasSince(before)

	if dealerReady {
		ledger.RepeatHand(true)
	} else {
		ledger.NextHand(true)
	}

	var tenpaiBits uint8
	for seat, slot := range s.tenpai {
		if slot == tenpaiReady {
			tenpaiBits |= 1 << uint(seat)
		}
	}

	for i, player := range ledger.Players {
		t.send(player.Conn, &packets.DrawResolved{
			Hand:       uint16(hand),
			TenpaiBits: tenpaiBits,
			Deltas:     deltas,
			Snapshot:   *ledger.Snapshot(i),
		})
	}

	t.recordHand(HandRecord{
		Hand:          hand,
		Repeat:        repeat,
		Outcome:       OutcomeDraw,
		DiscarderSeat: -1,
		Deltas:        deltasToInts(deltas),
	})

	return &Game{ledger: ledger}
}

// splitPot divides the draw pot evenly, truncating. The remainder on each
// side goes to the earliest seats in wind order so the sum of deltas is
// always exactly zero.
func (s *Draw) splitPot(ready int) {
	ledger := s.ledger
	pot := ledger.Options.DrawPot
	noten := NumSeats - ready

	creditBase, creditExtra := pot/ready, pot%ready
	debitBase, debitExtra := pot/noten, pot%noten

	for wind := 0; wind < NumSeats; wind++ {
		seat := ledger.SeatForWind(wind)
		if s.tenpai[seat] == tenpaiReady {
			credit := creditBase
			if creditExtra > 0 {
				credit++
				creditExtra--
			}
			ledger.Players[seat].Points += credit
		} else {
			debit := debitBase
			if debitExtra > 0 {
				debit++
				debitExtra--
			}
			ledger.Players[seat].Points -= debit
		}
	}
}
