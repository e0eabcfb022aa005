package table

import "github.com/hterui/janban/internal/packets"

// Lobby is the waiting room. It reports occupancy on every join and leave
// and forms the table the instant the fourth connection is present.
type Lobby struct{}

func (s *Lobby) Identifier() string { return "LOBBY" }
func (s *Lobby) Prompt() Prompt     { return PromptNone }

func (s *Lobby) Init(t *Table) State {
	s.sendCount(t)
	return nil
}

func (s *Lobby) OnJoin(t *Table, c Client) State {
	s.sendCount(t)
	if t.ClientCount() == NumSeats {
		return &Setup{}
	}
	return nil
}

func (s *Lobby) OnLeave(t *Table, c Client) State {
	s.sendCount(t)
	return nil
}

func (s *Lobby) OnPacket(t *Table, c Client, p packets.Packet) State {
	return nil
}

func (s *Lobby) sendCount(t *Table) {
	t.broadcast(&packets.LobbyCount{
		Joined:   uint16(t.ClientCount()),
		Capacity: uint16(NumSeats),
	})
}
