package data

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Match is one formed table, created when the fourth seat is claimed.
type Match struct {
	ID             uint64 `gorm:"primaryKey"`
	StartedAt      time.Time
	StartingPoints int
}

// HandResult is the outcome of one resolved hand. Deltas are per-seat point
// changes in hundreds; seats are fixed indexes, not winds.
type HandResult struct {
	ID      uint64 `gorm:"primaryKey"`
	MatchID uint64 `gorm:"index;not null"`
	Hand    int
	Repeat  int
	// Outcome is tsumo, ron, draw, or redraw.
	Outcome string `gorm:"not null"`
	// WinnerSeats is a bit-set indexed by seat; zero means no winner.
	WinnerSeats int
	// DiscarderSeat is -1 except for ron outcomes.
	DiscarderSeat int
	Delta0        int
	Delta1        int
	Delta2        int
	Delta3        int
	CreatedAt     time.Time
}

// CreateMatch inserts a new match row and returns it.
func CreateMatch(db *gorm.DB, startingPoints int) (*Match, error) {
	match := &Match{
		StartedAt:      time.Now(),
		StartingPoints: startingPoints,
	}
	if err := db.Create(match).Error; err != nil {
		return nil, err
	}
	return match, nil
}

// CreateHandResult appends one resolved hand to a match.
func CreateHandResult(db *gorm.DB, result *HandResult) error {
	return db.Create(result).Error
}

// FindMatchByID returns a match by primary key, or nil if there is no match.
func FindMatchByID(db *gorm.DB, id uint64) (*Match, error) {
	var match Match
	err := db.First(&match, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &match, nil
}

// FindHandResults returns the resolved hands of a match in play order.
func FindHandResults(db *gorm.DB, matchID uint64) ([]HandResult, error) {
	var results []HandResult
	err := db.Where("match_id = ?", matchID).Order("id").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
