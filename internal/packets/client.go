package packets

// Riichi declares a riichi bet for the sending seat.
type Riichi struct{}

func (Riichi) Tag() uint8 { return RiichiType }

// Tsumo declares a self-drawn win. Han is the hand strength and FuIndex
// selects the fee column of the score table.
type Tsumo struct {
	Han     uint8
	FuIndex uint8
}

func (Tsumo) Tag() uint8 { return TsumoType }

// RonWind declares a win off the discard of the seat currently holding Seat.
type RonWind struct {
	Seat uint8
}

func (RonWind) Tag() uint8 { return RonWindType }

// RonScore submits a score in response to a RonPrompt. A han/fu pair that
// maps to zero points means "I do not win".
type RonScore struct {
	Han     uint8
	FuIndex uint8
}

func (RonScore) Tag() uint8 { return RonScoreType }

// Draw declares an exhaustive draw along with the sender's own readiness.
type Draw struct {
	Tenpai uint8
}

func (Draw) Tag() uint8 { return DrawType }

// Redraw requests a penalty re-deal with no winner.
type Redraw struct{}

func (Redraw) Tag() uint8 { return RedrawType }

// ClaimSeat claims (or reclaims, during reconnection) the seat currently
// holding Wind.
type ClaimSeat struct {
	Wind uint8
}

func (ClaimSeat) Tag() uint8 { return ClaimSeatType }

// DiscoverRequest is broadcast over UDP by clients looking for a host.
type DiscoverRequest struct{}

func (DiscoverRequest) Tag() uint8 { return DiscoverRequestType }
