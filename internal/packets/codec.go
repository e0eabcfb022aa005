package packets

import (
	"encoding/binary"
	"io"

	"github.com/hterui/janban/internal/core/bytes"
)

// FrameHeaderSize is the number of bytes in the length prefix that delimits
// messages on a stream connection.
const FrameHeaderSize = 4

// MaxPayloadSize caps the declared length of an inbound frame. Every message
// in the catalog is well under this; anything larger is a decode error rather
// than something to buffer.
const MaxPayloadSize = 128

// Marshal serializes a message to its payload form: tag byte followed by the
// message's fixed fields. Encoding never fails; fields are pre-validated by
// the caller.
func Marshal(p Packet) []byte {
	fields, size := bytes.BytesFromStruct(p)
	payload := make([]byte, 0, size+1)
	payload = append(payload, p.Tag())
	return append(payload, fields...)
}

// Frame serializes a message and prepends the big-endian length prefix used
// on stream connections.
func Frame(p Packet) []byte {
	payload := Marshal(p)
	framed := make([]byte, FrameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(framed, uint32(len(payload)))
	copy(framed[FrameHeaderSize:], payload)
	return framed
}

// Unmarshal decodes a payload into its message. It returns a *DecodeError if
// the tag is unrecognized or the payload length does not match the tag's
// fixed size.
func Unmarshal(data []byte) (Packet, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Reason: "empty payload"}
	}

	var packet Packet
	switch data[0] {
	case RiichiType:
		packet = &Riichi{}
	case TsumoType:
		packet = &Tsumo{}
	case RonWindType:
		packet = &RonWind{}
	case RonScoreType:
		packet = &RonScore{}
	case DrawType:
		packet = &Draw{}
	case RedrawType:
		packet = &Redraw{}
	case ClaimSeatType:
		packet = &ClaimSeat{}
	case DiscoverRequestType:
		packet = &DiscoverRequest{}
	case LedgerSnapshotType:
		packet = &LedgerSnapshot{}
	case TenpaiPromptType:
		packet = &TenpaiPrompt{}
	case RonPromptType:
		packet = &RonPrompt{}
	case SeatOfferType:
		packet = &SeatOffer{}
	case SeatConfirmedType:
		packet = &SeatConfirmed{}
	case SetupAbortedType:
		packet = &SetupAborted{}
	case LobbyCountType:
		packet = &LobbyCount{}
	case ReconnectStatusType:
		packet = &ReconnectStatus{}
	case TsumoResolvedType:
		packet = &TsumoResolved{}
	case RonResolvedType:
		packet = &RonResolved{}
	case DrawResolvedType:
		packet = &DrawResolved{}
	case DiscoverResponseType:
		packet = &DiscoverResponse{}
	default:
		return nil, &DecodeError{PacketTag: data[0], Size: len(data), Reason: "unrecognized tag"}
	}

	if want := bytes.StructSize(packet) + 1; len(data) != want {
		return nil, &DecodeError{PacketTag: data[0], Size: len(data), Reason: "payload size mismatch"}
	}
	bytes.StructFromBytes(data[1:], packet)
	return packet, nil
}

// ReadFrame reads one length-prefixed payload from r, buffering until the
// declared number of bytes has arrived. io.EOF is returned only on a clean
// close between frames; a connection that closes mid-frame returns
// io.ErrUnexpectedEOF. Both are disconnects, not decode errors.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [FrameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(header[:])
	if length > MaxPayloadSize {
		return nil, &DecodeError{Size: int(length), Reason: "declared length exceeds maximum"}
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}
