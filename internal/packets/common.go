// Binary message definitions for the session and discovery protocols.
//
// Every message on the wire is framed as a 4 byte big-endian length followed
// by the payload, and every payload starts with a one byte tag identifying
// the message. Tags are split into two disjoint families: client-originated
// and server-originated. No tag is reused across families.
package packets

import "fmt"

// Client-originated message tags.
const (
	RiichiType          = 0x01
	TsumoType           = 0x02
	RonWindType         = 0x03
	RonScoreType        = 0x04
	DrawType            = 0x05
	RedrawType          = 0x06
	ClaimSeatType       = 0x07
	DiscoverRequestType = 0xC8
)

// Server-originated message tags.
const (
	LedgerSnapshotType   = 0x65
	TenpaiPromptType     = 0x66
	RonPromptType        = 0x68
	SeatOfferType        = 0x6A
	SeatConfirmedType    = 0x6B
	SetupAbortedType     = 0x6C
	LobbyCountType       = 0x6D
	ReconnectStatusType  = 0x6E
	TsumoResolvedType    = 0x6F
	RonResolvedType      = 0x70
	DrawResolvedType     = 0x71
	DiscoverResponseType = 0xC9
)

// NumSeats is the number of (fixed) seats at the table. The protocol is
// defined over exactly four seats and this is not configurable.
const NumSeats = 4

// Packet is implemented by every protocol message.
type Packet interface {
	// Tag returns the message's wire tag.
	Tag() uint8
}

// DecodeError is returned when a payload cannot be decoded into a message,
// either because the tag is unrecognized or because the payload length does
// not match the tag's fixed size. The connection that produced it should be
// closed.
type DecodeError struct {
	PacketTag uint8
	Size      int
	Reason    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding packet %#02x (%d bytes): %s", e.PacketTag, e.Size, e.Reason)
}

// Name returns a human-readable name for a message tag, primarily for logs
// and the sniffer tool.
func Name(tag uint8) string {
	switch tag {
	case RiichiType:
		return "Riichi"
	case TsumoType:
		return "Tsumo"
	case RonWindType:
		return "RonWind"
	case RonScoreType:
		return "RonScore"
	case DrawType:
		return "Draw"
	case RedrawType:
		return "Redraw"
	case ClaimSeatType:
		return "ClaimSeat"
	case DiscoverRequestType:
		return "DiscoverRequest"
	case LedgerSnapshotType:
		return "LedgerSnapshot"
	case TenpaiPromptType:
		return "TenpaiPrompt"
	case RonPromptType:
		return "RonPrompt"
	case SeatOfferType:
		return "SeatOffer"
	case SeatConfirmedType:
		return "SeatConfirmed"
	case SetupAbortedType:
		return "SetupAborted"
	case LobbyCountType:
		return "LobbyCount"
	case ReconnectStatusType:
		return "ReconnectStatus"
	case TsumoResolvedType:
		return "TsumoResolved"
	case RonResolvedType:
		return "RonResolved"
	case DrawResolvedType:
		return "DrawResolved"
	case DiscoverResponseType:
		return "DiscoverResponse"
	}
	return fmt.Sprintf("Unknown(%#02x)", tag)
}
