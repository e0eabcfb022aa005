package table

import "github.com/hterui/janban/internal/packets"

// promptReplayer is implemented by the collection states that owe a seat a
// prompt, so a reconnecting seat can be asked again for exactly what the
// disconnected one still owed.
type promptReplayer interface {
	PendingPrompt(seat int) (packets.Packet, bool)
}

// suspendForReconnect is the shared disconnect path for Game, Draw and Ron.
// The interrupted state and its pending-response slots are kept intact; only
// the seat's connection binding is cleared.
func suspendForReconnect(ledger *Ledger, interrupted State, c Client) State {
	seat := ledger.SeatOf(c)
	if seat < 0 {
		// An unseated spectator dropped; nothing to repair.
		return nil
	}
	ledger.Players[seat].Conn = nil
	return &Reconnect{ledger: ledger, resume: interrupted}
}

// Reconnect repairs the wind-to-connection bindings after a seat's
// connection is lost mid-hand. Missing seats are offered one at a time, in
// wind order, to any unbound connection; bound connections see the remaining
// missing-seat set instead. Once nothing is missing, control returns to the
// interrupted state with its pending-response slots untouched.
type Reconnect struct {
	ledger *Ledger
	resume State
	asking int
}

func (s *Reconnect) Identifier() string { return "RECONNECT" }
func (s *Reconnect) Prompt() Prompt     { return PromptSeatClaim }
func (s *Reconnect) Ledger() *Ledger    { return s.ledger }

func (s *Reconnect) Init(t *Table) State {
	return s.askWind(t)
}

func (s *Reconnect) OnJoin(t *Table, c Client) State {
	t.send(c, &packets.SeatOffer{Wind: uint8(s.asking)})
	return nil
}

func (s *Reconnect) OnLeave(t *Table, c Client) State {
	seat := s.ledger.SeatOf(c)
	if seat < 0 {
		return nil
	}
	s.ledger.Players[seat].Conn = nil
	return s.askWind(t)
}

func (s *Reconnect) OnPacket(t *Table, c Client, p packets.Packet) State {
	claim, ok := p.(*packets.ClaimSeat)
	if !ok {
		return nil
	}
	// Bound connections already hold a seat; their claims are ignored.
	if s.ledger.SeatOf(c) >= 0 {
		return nil
	}
	if int(claim.Wind) != s.asking {
		return nil
	}

	seat := s.ledger.SeatForWind(s.asking)
	s.ledger.Players[seat].Conn = c

	t.send(c, &packets.SeatConfirmed{Wind: claim.Wind})
	t.send(c, s.ledger.Snapshot(seat))

	next := s.askWind(t)
	if next == nil {
		// Other seats are still missing, so the interrupted state will not
		// resume yet. Replay whatever it was still waiting on from this seat
		// so the reconnecting player is not left idle; otherwise the resumed
		// state re-prompts its pending seats itself.
		if replayer, ok := s.resume.(promptReplayer); ok {
			if prompt, pending := replayer.PendingPrompt(seat); pending {
				t.send(c, prompt)
			}
		}
	}
	return next
}

// missingWinds returns the bit-set of winds whose seats have no reachable
// connection.
func (s *Reconnect) missingWinds() uint8 {
	var missing uint8
	for wind := 0; wind < NumSeats; wind++ {
		if s.ledger.PlayerForWind(wind).Conn == nil {
			missing |= 1 << uint(wind)
		}
	}
	return missing
}

// askWind offers the lowest missing wind, or resumes the interrupted state
// when nothing is missing.
func (s *Reconnect) askWind(t *Table) State {
	missing := s.missingWinds()
	if missing == 0 {
		return s.resume
	}

	for wind := 0; wind < NumSeats; wind++ {
		if missing&(1<<uint(wind)) != 0 {
			s.asking = wind
			break
		}
	}

	offer := &packets.SeatOffer{Wind: uint8(s.asking)}
	status := &packets.ReconnectStatus{MissingWinds: missing}
	for _, c := range t.clients {
		if s.ledger.SeatOf(c) >= 0 {
			t.send(c, status)
		} else {
			t.send(c, offer)
		}
	}
	return nil
}
