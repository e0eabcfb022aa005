// Package table implements the authoritative state machine for one
// four-seat table: Lobby -> Setup -> Game <-> {Draw, Ron} <-> Reconnect.
//
// The table owns the only client list and the only current state value.
// States hand control to each other by returning the next state from their
// handlers; nothing mutates the current state from arbitrary call sites. All
// entry points must be called from a single goroutine (the multiplex loop).
package table

import (
	"github.com/sirupsen/logrus"

	"github.com/hterui/janban/internal/packets"
)

// Client is a connection-like handle the table can route messages to. The
// transport layer owns the underlying socket; the table only sends.
type Client interface {
	Send(p packets.Packet) error
	Close() error
	RemoteAddr() string
}

// Prompt enumerates what, if anything, the table is currently waiting on
// from clients. Exposed for the display layer.
type Prompt uint8

const (
	PromptNone Prompt = iota
	PromptSeatClaim
	PromptDrawTenpai
	PromptRonScore
)

// State is one node of the table's state machine. Handlers return the next
// state; returning the receiver means no transition. A handler must never
// mutate a state it has handed off.
type State interface {
	// Identifier returns a short name for logs.
	Identifier() string

	// Init is invoked once when the state becomes current and sends any
	// opening messages. It may immediately hand off to another state.
	Init(t *Table) State

	// OnJoin handles a new connection appearing in the table's client list.
	OnJoin(t *Table, c Client) State

	// OnLeave handles a connection dropping out of the client list.
	OnLeave(t *Table, c Client) State

	// OnPacket handles one decoded message from a connection. Messages that
	// are illegal for the current state are ignored, not errors.
	OnPacket(t *Table, c Client, p packets.Packet) State

	// Prompt reports what the state is waiting on.
	Prompt() Prompt
}

// HandRecord describes one resolved hand for the history store.
type HandRecord struct {
	Hand          int
	Repeat        int
	Outcome       string
	WinnerSeats   []int
	DiscarderSeat int
	Deltas        [NumSeats]int
}

// Outcome values for HandRecord.
const (
	OutcomeTsumo  = "tsumo"
	OutcomeRon    = "ron"
	OutcomeDraw   = "draw"
	OutcomeRedraw = "redraw"
)

// Recorder receives completed-hand results. Implementations must not block;
// failures are logged by the table and never affect play.
type Recorder interface {
	StartMatch(startingPoints int) error
	RecordHand(record HandRecord) error
}

// Table owns the client list and the current state for one table.
type Table struct {
	Logger   *logrus.Logger
	Options  Options
	Recorder Recorder

	clients []Client
	state   State
}

func New(logger *logrus.Logger, opts Options) *Table {
	t := &Table{
		Logger:  logger,
		Options: opts,
	}
	t.state = &Lobby{}
	t.transition(t.state.Init(t))
	return t
}

// AddClient admits a connection to the table and routes it to the current
// state.
func (t *Table) AddClient(c Client) {
	t.clients = append(t.clients, c)
	t.transition(t.state.OnJoin(t, c))
}

// RemoveClient drops a connection and routes the disconnect to the current
// state. The ledger, if one exists, is never discarded here.
func (t *Table) RemoveClient(c Client) {
	for i, existing := range t.clients {
		if existing == c {
			t.clients = append(t.clients[:i], t.clients[i+1:]...)
			t.transition(t.state.OnLeave(t, c))
			return
		}
	}
}

// HandlePacket routes one decoded message to the current state.
func (t *Table) HandlePacket(c Client, p packets.Packet) {
	t.transition(t.state.OnPacket(t, c, p))
}

// ClientCount reports current occupancy.
func (t *Table) ClientCount() int {
	return len(t.clients)
}

// Status is the read-only view exposed to the display layer after every
// transition.
type Status struct {
	State       string
	Prompt      Prompt
	HasLedger   bool
	Hand        int
	Repeat      int
	BonusHonba  int
	BonusRiichi int
	Points      [NumSeats]int
	Riichi      [NumSeats]bool
}

// Status reports the current state, prompt, and ledger totals.
func (t *Table) Status() Status {
	status := Status{
		State:  t.state.Identifier(),
		Prompt: t.state.Prompt(),
	}
	if holder, ok := t.state.(ledgerHolder); ok {
		ledger := holder.Ledger()
		status.HasLedger = true
		status.Hand = ledger.Hand
		status.Repeat = ledger.Repeat
		status.BonusHonba = ledger.BonusHonba
		status.BonusRiichi = ledger.BonusRiichi
		for i, p := range ledger.Players {
			status.Points[i] = p.Points
			status.Riichi[i] = p.Riichi
		}
	}
	return status
}

// ledgerHolder is implemented by every state that carries the ledger.
type ledgerHolder interface {
	Ledger() *Ledger
}

// transition installs the next state, running Init chains until the state
// settles.
func (t *Table) transition(next State) {
	for next != nil && next != t.state {
		t.Logger.Infof("[TABLE] %s -> %s", t.state.Identifier(), next.Identifier())
		t.state = next
		next = next.Init(t)
	}
}

// broadcast sends a packet to every connection at the table, seated or not.
func (t *Table) broadcast(p packets.Packet) {
	for _, c := range t.clients {
		t.send(c, p)
	}
}

// send logs and swallows transport errors; a failing connection will surface
// through the disconnect path on the next dispatch.
func (t *Table) send(c Client, p packets.Packet) {
	if c == nil {
		return
	}
	if err := c.Send(p); err != nil {
		t.Logger.Warnf("failed to send %s to %s: %v", packets.Name(p.Tag()), c.RemoteAddr(), err)
	}
}

func (t *Table) startMatch(startingPoints int) {
	if t.Recorder == nil {
		return
	}
	if err := t.Recorder.StartMatch(startingPoints); err != nil {
		t.Logger.Warnf("failed to record match start: %v", err)
	}
}

func (t *Table) recordHand(record HandRecord) {
	if t.Recorder == nil {
		return
	}
	if err := t.Recorder.RecordHand(record); err != nil {
		t.Logger.Warnf("failed to record hand result: %v", err)
	}
}
