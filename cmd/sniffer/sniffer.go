package main

import (
	"encoding/binary"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/gopacket"

	"github.com/hterui/janban/internal/packets"
)

var dumpConfig = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}

// sniffer reassembles the length-prefixed protocol frames out of captured
// TCP segments, keeping one buffer per direction of each flow since frames
// can span segment boundaries.
type sniffer struct {
	serverPort uint16
	buffers    map[string][]byte
}

func newSniffer(serverPort uint16) *sniffer {
	return &sniffer{
		serverPort: serverPort,
		buffers:    make(map[string][]byte),
	}
}

func (s *sniffer) startReading(packetChan chan gopacket.Packet) {
	for packet := range packetChan {
		transport := packet.TransportLayer()
		app := packet.ApplicationLayer()
		if transport == nil || app == nil {
			continue
		}

		flow := transport.TransportFlow()
		srcPort := binary.BigEndian.Uint16(flow.Src().Raw())
		s.handleSegment(flow.String(), srcPort != s.serverPort, app.Payload())
	}
}

// handleSegment appends one segment's payload to its flow buffer and prints
// every complete frame it now contains.
func (s *sniffer) handleSegment(flow string, clientPacket bool, data []byte) {
	buffer := append(s.buffers[flow], data...)

	for {
		if len(buffer) < packets.FrameHeaderSize {
			break
		}
		length := int(binary.BigEndian.Uint32(buffer))
		if length > packets.MaxPayloadSize {
			// Out of sync with the stream; drop the buffer and resync on
			// the next connection.
			buffer = nil
			break
		}
		if len(buffer) < packets.FrameHeaderSize+length {
			break
		}

		s.printPacket(clientPacket, buffer[packets.FrameHeaderSize:packets.FrameHeaderSize+length])
		buffer = buffer[packets.FrameHeaderSize+length:]
	}

	s.buffers[flow] = buffer
}

func (s *sniffer) printPacket(clientPacket bool, payload []byte) {
	direction := "S->C"
	if clientPacket {
		direction = "C->S"
	}

	packet, err := packets.Unmarshal(payload)
	if err != nil {
		fmt.Printf("[%s] %v\n", direction, err)
		return
	}
	fmt.Printf("[%s] %s\n%s", direction, packets.Name(packet.Tag()), dumpConfig.Sdump(packet))
}
