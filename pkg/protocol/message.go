package protocol

import (
	"errors"
	"io"
)

// MessageHeaderSize is the size of the message header in bytes.
const MessageHeaderSize = 5

// MaxPayloadSize is the maximum message payload size (16MB).
const MaxPayloadSize = 16 * 1024 * 1024

// MessageType identifies the type of message.
type MessageType uint8

const (
	MessageRender MessageType = 0x01 // Client → Server: fixture document to render
	MessageFrames MessageType = 0x02 // Server → Client: encoded frame document
	MessageError  MessageType = 0x03 // Server → Client: error text
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	switch mt {
	case MessageRender:
		return "Render"
	case MessageFrames:
		return "Frames"
	case MessageError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Message errors.
var (
	ErrMessageTooLarge    = errors.New("protocol: message payload too large")
	ErrInvalidMessageType = errors.New("protocol: invalid message type")
)

// Message is one unit exchanged with the inspector over a WebSocket.
//
// Wire format (5 bytes header + variable payload):
//
//	┌─────────────┬───────────────────────────────┐
//	│ Type        │ Payload Length                │
//	│ (1 byte)    │ (4 bytes, big-endian)         │
//	└─────────────┴───────────────────────────────┘
type Message struct {
	Type    MessageType
	Payload []byte
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(mt MessageType, payload []byte) *Message {
	return &Message{Type: mt, Payload: payload}
}

// Encode encodes the message to bytes including the header.
func (m *Message) Encode() []byte {
	e := NewEncoder()
	e.WriteByte(byte(m.Type))
	e.WriteUint32(uint32(len(m.Payload)))
	e.WriteBytes(m.Payload)
	return e.Bytes()
}

// DecodeMessage decodes a message from bytes.
func DecodeMessage(data []byte) (*Message, error) {
	d := NewDecoder(data)
	mt, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch MessageType(mt) {
	case MessageRender, MessageFrames, MessageError:
	default:
		return nil, ErrInvalidMessageType
	}

	length, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	if length > MaxPayloadSize {
		return nil, ErrMessageTooLarge
	}
	if int(length) > d.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}

	raw, _ := d.ReadBytes(int(length))
	payload := make([]byte, len(raw))
	copy(payload, raw)
	return &Message{Type: MessageType(mt), Payload: payload}, nil
}
