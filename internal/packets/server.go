package packets

// PlayerState is one seat's entry in a ledger snapshot. Points are in
// hundreds and may be negative.
type PlayerState struct {
	Points int16
	Riichi uint8
}

// LedgerSnapshot is the authoritative game state push. SeatIndex identifies
// the recipient's own seat; Players are in fixed seat order.
type LedgerSnapshot struct {
	SeatIndex      uint8
	Hand           uint16
	Repeat         uint16
	BonusHonba     uint16
	BonusRiichi    uint16
	StartingPoints int16
	Players        [NumSeats]PlayerState
}

func (LedgerSnapshot) Tag() uint8 { return LedgerSnapshotType }

// TenpaiPrompt notifies a seat that a draw was declared and asks for its own
// readiness. Tenpai carries the declarer's reported readiness.
type TenpaiPrompt struct {
	Tenpai uint8
}

func (TenpaiPrompt) Tag() uint8 { return TenpaiPromptType }

// RonPrompt notifies a seat that a ron was declared against Seat and asks it
// to submit a score. IsDealer tells the recipient whether it scores with the
// dealer column.
type RonPrompt struct {
	Seat     uint8
	IsDealer uint8
}

func (RonPrompt) Tag() uint8 { return RonPromptType }

// SeatOffer offers the given wind to an unseated connection.
type SeatOffer struct {
	Wind uint8
}

func (SeatOffer) Tag() uint8 { return SeatOfferType }

// SeatConfirmed acknowledges an accepted ClaimSeat.
type SeatConfirmed struct {
	Wind uint8
}

func (SeatConfirmed) Tag() uint8 { return SeatConfirmedType }

// SetupAborted tells clients that the table fell below the minimum player
// count during setup and everyone is back in the lobby.
type SetupAborted struct{}

func (SetupAborted) Tag() uint8 { return SetupAbortedType }

// LobbyCount reports waiting room occupancy.
type LobbyCount struct {
	Joined   uint16
	Capacity uint16
}

func (LobbyCount) Tag() uint8 { return LobbyCountType }

// ReconnectStatus reports which seats are still disconnected as a bit-set
// indexed by wind.
type ReconnectStatus struct {
	MissingWinds uint8
}

func (ReconnectStatus) Tag() uint8 { return ReconnectStatusType }

// TsumoResolved reports the outcome of a self-draw win. Deltas are per-seat
// point changes in fixed seat order; Hand is the hand the win occurred in.
type TsumoResolved struct {
	WinnerSeat uint8
	Hand       uint16
	Deltas     [NumSeats]int16
	Snapshot   LedgerSnapshot
}

func (TsumoResolved) Tag() uint8 { return TsumoResolvedType }

// RonResolved reports the outcome of a discard win round.
type RonResolved struct {
	DiscarderSeat uint8
	Hand          uint16
	Deltas        [NumSeats]int16
	Snapshot      LedgerSnapshot
}

func (RonResolved) Tag() uint8 { return RonResolvedType }

// DrawResolved reports the outcome of an exhaustive draw. TenpaiBits has one
// bit per seat index.
type DrawResolved struct {
	Hand       uint16
	TenpaiBits uint8
	Deltas     [NumSeats]int16
	Snapshot   LedgerSnapshot
}

func (DrawResolved) Tag() uint8 { return DrawResolvedType }

// DiscoverResponse answers a DiscoverRequest datagram.
type DiscoverResponse struct{}

func (DiscoverResponse) Tag() uint8 { return DiscoverResponseType }
