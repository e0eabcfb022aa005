package server

import (
	"context"
	"io/ioutil"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hterui/janban/internal/core"
	"github.com/hterui/janban/internal/multiplex"
	"github.com/hterui/janban/internal/packets"
	"github.com/hterui/janban/internal/table"
)

// Allow the OS to choose the port for us.
const testAddr = "127.0.0.1:0"

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}

// startFrontend runs a full frontend (table, loop, listener) and returns the
// address it is accepting on.
func startFrontend(t *testing.T) net.Addr {
	t.Helper()
	logger := testLogger()
	loop := multiplex.NewLoop(64)

	f := &Frontend{
		Address: testAddr,
		Config:  &core.Config{},
		Logger:  logger,
		Table:   table.New(logger, table.DefaultOptions()),
		Loop:    loop,
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := f.Start(ctx); err != nil {
		t.Fatal("failed to start frontend:", err)
	}
	go loop.Run(ctx)

	t.Cleanup(func() {
		cancel()
		_ = f.Close()
	})
	return f.listener.Addr()
}

// readUntil reads frames off conn until one decodes to the wanted tag.
func readUntil(t *testing.T, conn net.Conn, tag uint8) packets.Packet {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		payload, err := packets.ReadFrame(conn)
		if err != nil {
			t.Fatalf("reading while waiting for %s: %v", packets.Name(tag), err)
		}
		packet, err := packets.Unmarshal(payload)
		if err != nil {
			t.Fatalf("decoding while waiting for %s: %v", packets.Name(tag), err)
		}
		if packet.Tag() == tag {
			return packet
		}
	}
}

func writePacket(t *testing.T, conn net.Conn, p packets.Packet) {
	t.Helper()
	if _, err := conn.Write(packets.Frame(p)); err != nil {
		t.Fatalf("writing %s: %v", packets.Name(p.Tag()), err)
	}
}

func TestFrontendSeatsFourConnections(t *testing.T) {
	addr := startFrontend(t)

	var conns [packets.NumSeats]net.Conn
	for i := range conns {
		conn, err := net.Dial(addr.Network(), addr.String())
		if err != nil {
			t.Fatal("failed to connect to", addr.String())
		}
		defer conn.Close()
		conns[i] = conn

		count := readUntil(t, conn, packets.LobbyCountType).(*packets.LobbyCount)
		if int(count.Joined) < i+1 {
			t.Errorf("connection %d saw occupancy %d", i, count.Joined)
		}
	}

	// The table is full; every connection is offered East.
	for i, conn := range conns {
		offer := readUntil(t, conn, packets.SeatOfferType).(*packets.SeatOffer)
		if offer.Wind != 0 {
			t.Errorf("connection %d offered wind %d, want 0", i, offer.Wind)
		}
	}

	// Claim the winds in order, waiting for each confirmation so the claims
	// arrive in a deterministic sequence.
	for i, conn := range conns {
		writePacket(t, conn, &packets.ClaimSeat{Wind: uint8(i)})
		confirmed := readUntil(t, conn, packets.SeatConfirmedType).(*packets.SeatConfirmed)
		if confirmed.Wind != uint8(i) {
			t.Errorf("connection %d confirmed for wind %d", i, confirmed.Wind)
		}
	}

	// Seating complete: everyone gets the opening snapshot.
	for i, conn := range conns {
		snapshot := readUntil(t, conn, packets.LedgerSnapshotType).(*packets.LedgerSnapshot)
		if snapshot.SeatIndex != uint8(i) {
			t.Errorf("connection %d snapshot addressed to seat %d", i, snapshot.SeatIndex)
		}
		if snapshot.Players[i].Points != 250 {
			t.Errorf("connection %d opening points = %d", i, snapshot.Players[i].Points)
		}
	}
}

func TestFrontendClosesConnectionOnDecodeError(t *testing.T) {
	addr := startFrontend(t)

	conn, err := net.Dial(addr.Network(), addr.String())
	if err != nil {
		t.Fatal("failed to connect to", addr.String())
	}
	defer conn.Close()
	readUntil(t, conn, packets.LobbyCountType)

	// A well-framed payload with a tag the server does not recognize.
	if _, err := conn.Write([]byte{0, 0, 0, 1, 0x42}); err != nil {
		t.Fatal("failed to write bad frame:", err)
	}

	// The server closes the connection rather than guessing at the stream
	// state.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = packets.ReadFrame(conn)
	for err == nil {
		_, err = packets.ReadFrame(conn)
	}
	if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
		t.Error("server left the connection open after a decode error")
	}
}

func TestFrontendEnforcesMaxConnections(t *testing.T) {
	logger := testLogger()
	loop := multiplex.NewLoop(64)
	config := &core.Config{MaxConnections: 1}

	f := &Frontend{
		Address: testAddr,
		Config:  config,
		Logger:  logger,
		Table:   table.New(logger, table.DefaultOptions()),
		Loop:    loop,
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := f.Start(ctx); err != nil {
		t.Fatal("failed to start frontend:", err)
	}
	go loop.Run(ctx)
	t.Cleanup(func() {
		cancel()
		_ = f.Close()
	})
	addr := f.listener.Addr()

	first, err := net.Dial(addr.Network(), addr.String())
	if err != nil {
		t.Fatal("failed to connect to", addr.String())
	}
	defer first.Close()
	readUntil(t, first, packets.LobbyCountType)

	second, err := net.Dial(addr.Network(), addr.String())
	if err != nil {
		t.Fatal("failed to connect to", addr.String())
	}
	defer second.Close()

	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := packets.ReadFrame(second); err == nil {
		t.Error("connection over the limit was admitted")
	}
}
