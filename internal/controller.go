package internal

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hterui/janban/internal/core"
	"github.com/hterui/janban/internal/core/data"
	"github.com/hterui/janban/internal/core/debug"
	"github.com/hterui/janban/internal/multiplex"
	"github.com/hterui/janban/internal/server"
	"github.com/hterui/janban/internal/table"
)

// Controller is the main entrypoint for the server. It's responsible for
// initializing the shared resources (logging, the history store, the
// dispatch loop), wiring up the table and its network frontends, and running
// the loop until the context is cancelled.
type Controller struct {
	Config *core.Config

	logger *logrus.Logger
	db     *gorm.DB
}

func (c *Controller) Start(ctx context.Context) error {
	var err error
	// Set up the logger, which will be used by all components.
	c.logger, err = core.NewLogger(c.Config)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}

	// Start any debug utilities if we're configured to do so.
	if c.Config.Debugging.PprofEnabled {
		debug.StartUtilities(c.logger, c.Config.Debugging.PprofPort)
	}

	var recorder table.Recorder
	if c.Config.Database.Engine != "" {
		source := c.Config.Database.Filename
		if c.Config.Database.Engine == "postgres" {
			source = c.Config.DatabaseURL()
		}
		c.db, err = data.Initialize(
			c.Config.Database.Engine,
			source,
			c.Config.Debugging.DatabaseLoggingEnabled,
		)
		if err != nil {
			return fmt.Errorf("error initializing history store: %w", err)
		}
		recorder = &historyRecorder{db: c.db, logger: c.logger}
	}

	gameTable := table.New(c.logger, c.gameOptions())
	gameTable.Recorder = recorder

	loop := multiplex.NewLoop(64)

	frontend := &server.Frontend{
		Address: c.Config.SessionAddress(),
		Config:  c.Config,
		Logger:  c.logger,
		Table:   gameTable,
		Loop:    loop,
	}
	if err := frontend.Start(ctx); err != nil {
		return err
	}
	defer frontend.Close()

	responder := &server.Responder{
		Address: c.Config.DiscoveryAddress(),
		Logger:  c.logger,
		Loop:    loop,
	}
	if err := responder.Start(ctx); err != nil {
		return err
	}
	defer responder.Close()

	err = loop.Run(ctx)
	c.shutdown()
	return err
}

// gameOptions overlays any configured point values on the defaults.
func (c *Controller) gameOptions() table.Options {
	opts := table.DefaultOptions()
	if c.Config.Game.StartingPoints != 0 {
		opts.StartingPoints = c.Config.Game.StartingPoints
	}
	if c.Config.Game.RiichiBet != 0 {
		opts.RiichiBet = c.Config.Game.RiichiBet
	}
	if c.Config.Game.DrawPot != 0 {
		opts.DrawPot = c.Config.Game.DrawPot
	}
	if c.Config.Game.TsumoHonba != 0 {
		opts.TsumoHonba = c.Config.Game.TsumoHonba
	}
	if c.Config.Game.RonHonba != 0 {
		opts.RonHonba = c.Config.Game.RonHonba
	}
	return opts
}

func (c *Controller) shutdown() {
	if c.db != nil {
		if err := data.Shutdown(c.db); err != nil {
			c.logger.Warnf("error closing history store: %v", err)
		}
	}
}

// historyRecorder adapts the gorm-backed history store to the table's
// Recorder interface. Write failures are reported to the table, which logs
// and plays on.
type historyRecorder struct {
	db     *gorm.DB
	logger *logrus.Logger

	matchID uint64
}

func (r *historyRecorder) StartMatch(startingPoints int) error {
	match, err := data.CreateMatch(r.db, startingPoints)
	if err != nil {
		return err
	}
	r.matchID = match.ID
	return nil
}

func (r *historyRecorder) RecordHand(record table.HandRecord) error {
	if r.matchID == 0 {
		return fmt.Errorf("no match in progress")
	}

	winners := 0
	for _, seat := range record.WinnerSeats {
		winners |= 1 << uint(seat)
	}
	return data.CreateHandResult(r.db, &data.HandResult{
		MatchID:       r.matchID,
		Hand:          record.Hand,
		Repeat:        record.Repeat,
		Outcome:       record.Outcome,
		WinnerSeats:   winners,
		DiscarderSeat: record.DiscarderSeat,
		Delta0:        record.Deltas[0],
		Delta1:        record.Deltas[1],
		Delta2:        record.Deltas[2],
		Delta3:        record.Deltas[3],
	})
}
