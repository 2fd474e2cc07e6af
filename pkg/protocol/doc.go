// Package protocol implements the binary wire format for frame arrays.
//
// Frame arrays are produced by the construct package and may reference
// nested arrays through fragment-valued attributes. The codec serializes
// an array together with its fragments, expanded up to a depth limit, so
// that a snapshot or a WebSocket peer sees the whole tree without access
// to the producing process.
//
// # Wire Format
//
// A document starts with a 3-byte header followed by the root array:
//
//	┌──────────────┬─────────────┬──────────────────────┐
//	│ Magic "FT"   │ Version     │ Frames               │
//	│ (2 bytes)    │ (1 byte)    │ (variable)           │
//	└──────────────┴─────────────┴──────────────────────┘
//
// An array is a varint count followed by that many frames:
//
//	[Kind: byte][Seq: uvarint][Name: len-prefixed]
//	Component, Element: [Size: uvarint]
//	Text:               [Text: len-prefixed]
//	Attribute:          [ValueKind: byte][Value]
//
// Values are encoded by kind:
//
//   - String: len-prefixed
//   - Bool: one byte
//   - Number: [NumberTag: byte] then svarint, uvarint, or float64
//   - Handler: the Go type of the delegate, len-prefixed
//   - Object: the Go type and its textual form, both len-prefixed
//   - Fragment: [FragmentState: byte] then a nested array (expanded),
//     nothing (truncated), or a len-prefixed message (failed)
//
// Handlers and objects cannot cross a process boundary; they decode to
// HandlerRef and ObjectRef placeholders.
//
// # Messages
//
// Over a WebSocket, documents travel inside messages with a 5-byte header
// carrying the message type and the payload length. See Message.
//
// # Encoding
//
//   - Varint: compact encoding for small integers (protobuf-style)
//   - ZigZag: signed integers encoded as unsigned varints
//   - Length-prefixed: strings prefixed with a varint length
//   - Big-endian: fixed-width integers and IEEE 754 floats
package protocol
