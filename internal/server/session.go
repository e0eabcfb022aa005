package server

import (
	"fmt"
	"net"

	"github.com/hterui/janban/internal/packets"
)

// session wraps one client stream connection. It implements table.Client;
// the table routes outbound messages through Send while the session's reader
// goroutine feeds inbound frames to the multiplex loop.
type session struct {
	conn net.Conn
	addr string
}

func newSession(conn net.Conn) *session {
	return &session{
		conn: conn,
		addr: conn.RemoteAddr().String(),
	}
}

func (s *session) RemoteAddr() string { return s.addr }

// Send frames and writes a message, looping on partial sends.
func (s *session) Send(p packets.Packet) error {
	return s.transmit(packets.Frame(p))
}

func (s *session) transmit(data []byte) error {
	sent := 0
	for sent < len(data) {
		n, err := s.conn.Write(data[sent:])
		if err != nil {
			return fmt.Errorf("failed to send to client %v: %s", s.addr, err.Error())
		}
		sent += n
	}
	return nil
}

func (s *session) Close() error {
	return s.conn.Close()
}
