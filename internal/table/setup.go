package table

import "github.com/hterui/janban/internal/packets"

// Setup assigns the four seats. Winds are claimed in strict order 0 through
// 3; the claim order fixes the seat indexes for the life of the table.
type Setup struct {
	claimed []Client
}

func (s *Setup) Identifier() string { return "SETUP" }
func (s *Setup) Prompt() Prompt     { return PromptSeatClaim }

func (s *Setup) Init(t *Table) State {
	s.offerNextWind(t)
	return nil
}

// offerNextWind offers the next unclaimed wind to every connection that has
// not yet claimed one.
func (s *Setup) offerNextWind(t *Table) {
	offer := &packets.SeatOffer{Wind: uint8(len(s.claimed))}
	for _, c := range t.clients {
		if !s.hasClaimed(c) {
			t.send(c, offer)
		}
	}
}

func (s *Setup) OnJoin(t *Table, c Client) State {
	t.send(c, &packets.SeatOffer{Wind: uint8(len(s.claimed))})
	return nil
}

func (s *Setup) OnLeave(t *Table, c Client) State {
	if t.ClientCount() < NumSeats {
		return s.abort(t)
	}

	for i, claimant := range s.claimed {
		if claimant == c {
			s.claimed = append(s.claimed[:i], s.claimed[i+1:]...)
			// Losing any seat but the most recently claimed one would leave
			// a hole in the wind order, so claiming restarts from East.
			if i < len(s.claimed) {
				s.claimed = nil
			}
			break
		}
	}

	s.offerNextWind(t)
	return nil
}

func (s *Setup) OnPacket(t *Table, c Client, p packets.Packet) State {
	claim, ok := p.(*packets.ClaimSeat)
	if !ok {
		return nil
	}
	// Wrong next wind or a second claim from a seated connection: ignored.
	if int(claim.Wind) != len(s.claimed) || s.hasClaimed(c) {
		return nil
	}

	s.claimed = append(s.claimed, c)
	t.send(c, &packets.SeatConfirmed{Wind: claim.Wind})

	if len(s.claimed) == NumSeats {
		var seats [NumSeats]Client
		copy(seats[:], s.claimed)
		t.startMatch(t.Options.StartingPoints)
		return &Game{ledger: NewLedger(t.Options, seats)}
	}

	s.offerNextWind(t)
	return nil
}

func (s *Setup) hasClaimed(c Client) bool {
	for _, claimant := range s.claimed {
		if claimant == c {
			return true
		}
	}
	return false
}

// abort returns everyone to the lobby after the table fell below the minimum
// player count.
func (s *Setup) abort(t *Table) State {
	t.broadcast(&packets.SetupAborted{})
	return &Lobby{}
}
