// Package score implements the static payout tables for the four-seat game.
//
// All values are in hundreds of points, the canonical unit across the server.
// A Payout row carries the four columns of the traditional score sheet and
// callers pick the one matching the winner's seat role. The sub-limit table
// is hand-coded rather than formula-derived because the official sheet
// includes rounding exceptions at the lowest han/fu combinations.
package score

// Payout is one row of the score table: the points collected for a win,
// by seat role and win type. Ron values are paid entirely by the discarder;
// tsumo values are paid by each losing seat (DealerTsumo by everyone when the
// dealer wins, otherwise DealerTsumo by the dealer and Tsumo by the others).
type Payout struct {
	DealerRon   int
	Ron         int
	DealerTsumo int
	Tsumo       int
}

// FuValues maps a fu index to its named fu value, for display and debugging.
// The wire protocol carries the index, not the value.
var FuValues = [11]int{20, 25, 30, 40, 50, 60, 70, 80, 90, 100, 110}

// Limit tiers, applied at and above five han regardless of fu.
var (
	mangan    = Payout{120, 80, 40, 20}
	haneman   = Payout{180, 120, 60, 30}
	baiman    = Payout{240, 160, 80, 40}
	sanbaiman = Payout{360, 240, 120, 60}
	yakuman   = Payout{480, 320, 160, 80}
)

var zero = Payout{}

// hanFuPayouts covers one through four han, indexed by [han-1][fuIndex].
// Cells that reach the limit are baked in as mangan. Impossible combinations
// (one han twenty fu, two han twenty-five fu tsumo) are zero.
var hanFuPayouts = [4][11]Payout{
	{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{15, 10, 5, 3},
		{20, 13, 7, 4},
		{24, 16, 8, 4},
		{29, 20, 10, 5},
		{34, 23, 12, 6},
		{39, 26, 13, 7},
		{44, 29, 15, 8},
		{48, 32, 16, 8},
		{53, 36, 18, 9},
	},
	{
		{0, 0, 7, 4},
		{24, 16, 0, 0},
		{29, 20, 10, 5},
		{39, 26, 13, 7},
		{48, 32, 16, 8},
		{58, 39, 20, 10},
		{68, 45, 23, 12},
		{77, 52, 26, 13},
		{87, 58, 29, 15},
		{96, 64, 32, 16},
		{106, 71, 36, 18},
	},
	{
		{0, 0, 13, 7},
		{48, 32, 16, 8},
		{58, 39, 20, 10},
		{77, 52, 26, 13},
		{96, 64, 32, 16},
		{116, 77, 39, 20},
		mangan,
		mangan,
		mangan,
		mangan,
		mangan,
	},
	{
		{0, 0, 26, 13},
		{96, 64, 32, 16},
		{116, 77, 39, 20},
		mangan,
		mangan,
		mangan,
		mangan,
		mangan,
		mangan,
		mangan,
		mangan,
	},
}

// Calculate returns the payout row for a han/fu-index pair. Zero han is a
// zero payout ("no win"). Han and fu index values beyond the table clamp to
// the top tier and column.
func Calculate(han, fuIndex int) Payout {
	if han <= 0 {
		return zero
	}
	if fuIndex < 0 {
		return zero
	}
	if fuIndex >= len(FuValues) {
		fuIndex = len(FuValues) - 1
	}

	switch {
	case han <= 4:
		return hanFuPayouts[han-1][fuIndex]
	case han == 5:
		return mangan
	case han <= 7:
		return haneman
	case han <= 10:
		return baiman
	case han <= 12:
		return sanbaiman
	}
	return yakuman
}

// Tsumo returns the per-seat payment collected from a losing seat for a
// self-drawn win. dealer selects the dealer column, which applies when either
// the winner or the paying seat is the dealer.
func Tsumo(han, fuIndex int, dealer bool) int {
	p := Calculate(han, fuIndex)
	if dealer {
		return p.DealerTsumo
	}
	return p.Tsumo
}

// Ron returns the points collected from the discarder for a discard win.
// dealer selects the dealer column for a dealer winner.
func Ron(han, fuIndex int, dealer bool) int {
	p := Calculate(han, fuIndex)
	if dealer {
		return p.DealerRon
	}
	return p.Ron
}
