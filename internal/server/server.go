// Package server connects the network to the table: it accepts stream
// connections, assembles and decodes frames, and routes every decoded
// message (and every disconnect) to the table's current state over the
// multiplex loop. It also answers discovery datagrams.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/hterui/janban/internal/core"
	"github.com/hterui/janban/internal/core/debug"
	"github.com/hterui/janban/internal/multiplex"
	"github.com/hterui/janban/internal/packets"
	"github.com/hterui/janban/internal/table"
)

// Frontend owns the listening sockets for one table.
type Frontend struct {
	Address string
	Config  *core.Config
	Logger  *logrus.Logger
	Table   *table.Table
	Loop    *multiplex.Loop

	listener *net.TCPListener
}

// Start opens the TCP socket, registers it with the loop, and spins off the
// accept goroutine. The loop itself is driven by the caller.
func (f *Frontend) Start(ctx context.Context) error {
	hostAddr, err := net.ResolveTCPAddr("tcp", f.Address)
	if err != nil {
		return fmt.Errorf("error resolving address %s: %w", f.Address, err)
	}

	f.listener, err = net.ListenTCP("tcp", hostAddr)
	if err != nil {
		return fmt.Errorf("error listening on socket: %w", err)
	}

	f.Loop.Register(f.listener, f.handleListenerEvent)
	go f.acceptLoop(ctx)

	f.Logger.Infof("[TABLE] waiting for connections on %v", f.Address)
	return nil
}

// Close shuts the listening socket; in-flight sessions are closed by their
// own hang-up events.
func (f *Frontend) Close() error {
	if f.listener == nil {
		return nil
	}
	return f.listener.Close()
}

// acceptLoop blocks on Accept and posts each new connection to the loop so
// that session registration happens on the dispatching goroutine.
func (f *Frontend) acceptLoop(ctx context.Context) {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
			default:
				f.Logger.Warnf("failed to accept connection: %s", err.Error())
			}
			return
		}
		f.Loop.Post(f.listener, multiplex.Event{Kind: multiplex.Readable, Data: conn})
	}
}

// handleListenerEvent admits one accepted connection: sets up its session,
// registers it with the loop, and hands it to the table.
func (f *Frontend) handleListenerEvent(_ interface{}, ev multiplex.Event) {
	if ev.Kind != multiplex.Readable {
		return
	}
	conn := ev.Data.(net.Conn)

	if f.Config.MaxConnections > 0 && f.Table.ClientCount() >= f.Config.MaxConnections {
		f.Logger.Infof("[TABLE] rejected connection from %s: table full", conn.RemoteAddr())
		_ = conn.Close()
		return
	}

	s := newSession(conn)
	f.Loop.Register(s, f.handleSessionEvent)
	go f.readLoop(s)

	f.Logger.Infof("[TABLE] accepted connection from %s", s.RemoteAddr())
	f.Table.AddClient(s)
}

// readLoop assembles frames off one session and posts them to the loop. A
// clean close or a mid-frame close is a hang-up; anything else is an error
// event. The goroutine exits with the connection.
func (f *Frontend) readLoop(s *session) {
	for {
		payload, err := packets.ReadFrame(s.conn)
		if err != nil {
			kind := multiplex.Errored
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
				kind = multiplex.HangUp
			}
			f.Loop.Post(s, multiplex.Event{Kind: kind, Err: err})
			return
		}
		f.Loop.Post(s, multiplex.Event{Kind: multiplex.Readable, Data: payload})
	}
}

// handleSessionEvent decodes one inbound payload and routes it to the table.
// Decode failures close the offending connection and never touch the ledger.
func (f *Frontend) handleSessionEvent(source interface{}, ev multiplex.Event) {
	s := source.(*session)

	switch ev.Kind {
	case multiplex.Readable:
		payload := ev.Data.([]byte)
		packet, err := packets.Unmarshal(payload)
		if err != nil {
			f.Logger.Warnf("closing %s: %v", s.RemoteAddr(), err)
			f.dropSession(s)
			return
		}
		if f.Config.Debugging.PacketLoggingEnabled {
			debug.DumpPacket(f.Logger, "C->S "+s.RemoteAddr(), packet)
		}
		f.Table.HandlePacket(s, packet)
	case multiplex.HangUp:
		f.Logger.Infof("[TABLE] disconnected client %s", s.RemoteAddr())
		f.dropSession(s)
	case multiplex.Errored:
		f.Logger.Warnf("error in client communication with %s: %v", s.RemoteAddr(), ev.Err)
		f.dropSession(s)
	}
}

func (f *Frontend) dropSession(s *session) {
	f.Loop.Unregister(s)
	if err := s.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		f.Logger.Warnf("failed to close client connection: %s", err)
	}
	f.Table.RemoveClient(s)
}
