package server

import (
	"context"
	"fmt"
	"net"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/hterui/janban/internal/multiplex"
	"github.com/hterui/janban/internal/packets"
)

// replyThrottle is how long a requester's address is remembered; repeated
// discovery broadcasts inside the window get a single response.
const replyThrottle = time.Second

// Responder answers broadcast "who is hosting" datagrams so clients on the
// same network segment can find the table without a known address. It is
// stateless with respect to the game; it never touches the ledger.
type Responder struct {
	Address string
	Logger  *logrus.Logger
	Loop    *multiplex.Loop

	conn *net.UDPConn
	seen *gocache.Cache
}

// datagram carries one received packet and its origin through the loop.
type datagram struct {
	payload []byte
	addr    *net.UDPAddr
}

func (r *Responder) Start(ctx context.Context) error {
	udpAddr, err := net.ResolveUDPAddr("udp", r.Address)
	if err != nil {
		return fmt.Errorf("error resolving discovery address %s: %w", r.Address, err)
	}

	r.conn, err = net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("error listening for discovery datagrams: %w", err)
	}
	r.seen = gocache.New(replyThrottle, 10*time.Second)

	r.Loop.Register(r.conn, r.handleEvent)
	go r.readLoop(ctx)

	r.Logger.Infof("[DISCOVERY] answering on %v", r.Address)
	return nil
}

func (r *Responder) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

func (r *Responder) readLoop(ctx context.Context) {
	buffer := make([]byte, 32)
	for {
		n, addr, err := r.conn.ReadFromUDP(buffer)
		if err != nil {
			select {
			case <-ctx.Done():
			default:
				r.Logger.Warnf("discovery socket error: %v", err)
			}
			return
		}

		payload := make([]byte, n)
		copy(payload, buffer[:n])
		r.Loop.Post(r.conn, multiplex.Event{
			Kind: multiplex.Readable,
			Data: datagram{payload: payload, addr: addr},
		})
	}
}

// handleEvent parses one datagram. Discovery datagrams reuse the stream
// framing (length prefix plus payload) so the codec is shared; anything that
// isn't a well-formed DiscoverRequest is dropped silently.
func (r *Responder) handleEvent(_ interface{}, ev multiplex.Event) {
	if ev.Kind != multiplex.Readable {
		return
	}
	d := ev.Data.(datagram)

	if len(d.payload) < packets.FrameHeaderSize {
		return
	}
	length := int(d.payload[0])<<24 | int(d.payload[1])<<16 | int(d.payload[2])<<8 | int(d.payload[3])
	body := d.payload[packets.FrameHeaderSize:]
	if length > len(body) {
		return
	}

	packet, err := packets.Unmarshal(body[:length])
	if err != nil {
		return
	}
	if _, ok := packet.(*packets.DiscoverRequest); !ok {
		return
	}

	key := d.addr.String()
	if _, throttled := r.seen.Get(key); throttled {
		return
	}
	r.seen.Set(key, struct{}{}, gocache.DefaultExpiration)

	if _, err := r.conn.WriteToUDP(packets.Frame(&packets.DiscoverResponse{}), d.addr); err != nil {
		r.Logger.Warnf("failed to answer discovery request from %s: %v", d.addr, err)
	}
}
