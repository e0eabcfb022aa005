package table

import "github.com/hterui/janban/internal/packets"

// Wind values. These are seat roles, not seat indexes: a seat's wind rotates
// as hands advance while its index is fixed at table formation.
const (
	East = iota
	South
	West
	North
)

// NumSeats is fixed by the protocol.
const NumSeats = packets.NumSeats

// Options carries the tunable point values, all in hundreds.
type Options struct {
	// StartingPoints is each seat's opening total.
	StartingPoints int
	// RiichiBet is removed from a seat's total on a riichi declaration and
	// paid into the shared pot.
	RiichiBet int
	// DrawPot is the total exchanged between ready and unready seats at an
	// exhaustive draw.
	DrawPot int
	// TsumoHonba is paid per carried honba by each losing seat on a
	// self-draw win.
	TsumoHonba int
	// RonHonba is paid per carried honba by the discarder to each winner on
	// a discard win.
	RonHonba int
}

// DefaultOptions are the traditional values: 25000 start, 1000 point riichi
// bet and draw pot, 100 per honba per payer on tsumo, 300 per honba per
// winner on ron.
func DefaultOptions() Options {
	return Options{
		StartingPoints: 250,
		RiichiBet:      10,
		DrawPot:        10,
		TsumoHonba:     1,
		RonHonba:       3,
	}
}

// Player is one seat's ledger entry. Conn is a weak, rebindable reference
// used only for routing outbound messages; reconnection swaps it without
// touching Points or Riichi. A nil Conn means the seat is unreachable.
type Player struct {
	Conn   Client
	Points int
	Riichi bool
}

// Ledger is the shared game state for one table. Exactly one state value
// owns it at a time; it survives every Game/Draw/Ron/Reconnect transition
// for the life of the table.
type Ledger struct {
	Hand        int
	Repeat      int
	BonusHonba  int
	BonusRiichi int
	Options     Options
	Players     [NumSeats]*Player
}

// NewLedger forms a table from four connections in claim order: seats[0]
// holds East for hand zero.
func NewLedger(opts Options, seats [NumSeats]Client) *Ledger {
	l := &Ledger{Options: opts}
	for i, c := range seats {
		l.Players[i] = &Player{Conn: c, Points: opts.StartingPoints}
	}
	return l
}

// Wind returns the wind currently held by a seat index.
func (l *Ledger) Wind(seat int) int {
	return ((seat-l.Hand)%NumSeats + NumSeats) % NumSeats
}

// SeatForWind returns the seat index currently holding a wind.
func (l *Ledger) SeatForWind(wind int) int {
	return (wind + l.Hand) % NumSeats
}

// PlayerForWind returns the player currently holding a wind.
func (l *Ledger) PlayerForWind(wind int) *Player {
	return l.Players[l.SeatForWind(wind)]
}

// SeatOf returns the seat index bound to a connection, or -1 if the
// connection is not bound to any seat.
func (l *Ledger) SeatOf(c Client) int {
	for i, p := range l.Players {
		if p.Conn != nil && p.Conn == c {
			return i
		}
	}
	return -1
}

// TotalHonba is the honba count folded into the next payout.
func (l *Ledger) TotalHonba() int {
	return l.Repeat + l.BonusHonba
}

// TotalRiichi is the number of riichi bets in the shared pot, carried sticks
// included.
func (l *Ledger) TotalRiichi() int {
	total := l.BonusRiichi
	for _, p := range l.Players {
		if p.Riichi {
			total++
		}
	}
	return total
}

// DeclareRiichi places a seat's riichi bet. Declaring twice in one hand is
// a no-op.
func (l *Ledger) DeclareRiichi(seat int) {
	p := l.Players[seat]
	if p.Riichi {
		return
	}
	p.Riichi = true
	p.Points -= l.Options.RiichiBet
}

// PayRiichiPot pays the shared riichi pot to the earliest winner in wind
// order and clears the carried sticks. It must be called before the hand
// advances.
func (l *Ledger) PayRiichiPot(winnerSeats []int) {
	for wind := 0; wind < NumSeats; wind++ {
		seat := l.SeatForWind(wind)
		for _, w := range winnerSeats {
			if w == seat {
				l.Players[seat].Points += l.Options.RiichiBet * l.TotalRiichi()
				l.BonusRiichi = 0
				return
			}
		}
	}
}

func (l *Ledger) resetRiichi() {
	for _, p := range l.Players {
		p.Riichi = false
	}
}

// RepeatHand keeps the dealer seated. For a drawn hand the riichi pot is
// carried forward instead of cleared.
func (l *Ledger) RepeatHand(draw bool) {
	if draw {
		l.BonusRiichi = l.TotalRiichi()
	} else {
		l.BonusRiichi = 0
	}
	l.resetRiichi()
	l.Repeat++
}

// NextHand rotates the dealership. For a drawn hand the honba and riichi pot
// carry into the next hand's bonuses.
func (l *Ledger) NextHand(draw bool) {
	if draw {
		l.BonusHonba = l.TotalHonba() + 1
		l.BonusRiichi = l.TotalRiichi()
	} else {
		l.BonusHonba = 0
		l.BonusRiichi = 0
	}
	l.resetRiichi()
	l.Hand++
	l.Repeat = 0
}

// Redraw applies a penalty re-deal: one honba accumulates, riichi bets move
// into the carried pot, and the hand does not advance.
func (l *Ledger) Redraw() {
	l.BonusHonba++
	l.BonusRiichi = l.TotalRiichi()
	l.resetRiichi()
}

// Snapshot builds the authoritative state push for one recipient seat.
func (l *Ledger) Snapshot(seat int) *packets.LedgerSnapshot {
	snapshot := &packets.LedgerSnapshot{
		SeatIndex:      uint8(seat),
		Hand:           uint16(l.Hand),
		Repeat:         uint16(l.Repeat),
		BonusHonba:     uint16(l.BonusHonba),
		BonusRiichi:    uint16(l.BonusRiichi),
		StartingPoints: int16(l.Options.StartingPoints),
	}
	for i, p := range l.Players {
		snapshot.Players[i] = packets.PlayerState{Points: int16(p.Points)}
		if p.Riichi {
			snapshot.Players[i].Riichi = 1
		}
	}
	return snapshot
}

// points returns the current totals, used to derive per-seat deltas around
// a resolution.
func (l *Ledger) points() [NumSeats]int {
	var pts [NumSeats]int
	for i, p := range l.Players {
		pts[i] = p.Points
	}
	return pts
}

// deltasSince converts a before/after totals pair into the wire form.
func (l *Ledger) deltasSince(before [NumSeats]int) [NumSeats]int16 {
	var deltas [NumSeats]int16
	for i, p := range l.Players {
		deltas[i] = int16(p.Points - before[i])
	}
	return deltas
}
