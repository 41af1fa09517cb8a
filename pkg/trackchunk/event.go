package trackchunk

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// ChunkEvent is one decoded event within a track chunk. Data holds the
// VLQ-encoded delta-time bytes followed by the event's own bytes,
// excluding any status byte omitted via running status. Everything
// else is recomputed from Data on demand rather than stored.
type ChunkEvent struct {
	Data          []byte
	TimeDivision  uint16
	RunningStatus byte
	TimeOffset    uint32
}

// DeltaTime returns the tick delay before this event, decoded from the
// VLQ prefix of Data.
func (e ChunkEvent) DeltaTime() uint32 {
	v, _ := DecodeVLQ(e.Data)
	return v.Quantity
}

// AbsoluteTime returns the event's position in ticks from the start of
// the track.
func (e ChunkEvent) AbsoluteTime() uint32 {
	return e.DeltaTime() + e.TimeOffset
}

// Position returns the event's position in beats.
func (e ChunkEvent) Position() float64 {
	div := e.TimeDivision
	if div == 0 {
		div = DefaultTimeDivision
	}
	return float64(e.AbsoluteTime()) / float64(div)
}

// RawEventData returns the event bytes after the VLQ delta-time prefix,
// exactly as they appeared in the track body.
func (e ChunkEvent) RawEventData() []byte {
	v, ok := DecodeVLQ(e.Data)
	if !ok {
		return nil
	}
	return e.Data[v.Length():]
}

// ComputedData returns the self-contained event bytes: when the event
// relied on running status, the carried status byte is prepended so the
// result can be written back as a standalone message.
func (e ChunkEvent) ComputedData() []byte {
	raw := e.RawEventData()
	if e.RunningStatus == 0 {
		return raw
	}
	out := make([]byte, 0, len(raw)+1)
	out = append(out, e.RunningStatus)
	return append(out, raw...)
}

// TypeByte returns the byte governing this event: the carried status
// for running-status events, the meta type byte for meta events, and
// the leading status byte otherwise.
func (e ChunkEvent) TypeByte() byte {
	if e.RunningStatus != 0 {
		return e.RunningStatus
	}
	raw := e.RawEventData()
	if len(raw) == 0 {
		return 0
	}
	if raw[0] == MetaPrefix && len(raw) >= 2 {
		return raw[1]
	}
	return raw[0]
}

// Length returns the event's body length computed per kind: the
// declared payload length for meta events, the full message length for
// everything else. 0 when the event is unrecognized.
func (e ChunkEvent) Length() int {
	data := e.ComputedData()
	c, ok := Classify(data, 0)
	if !ok {
		return 0
	}
	if c.Kind == KindMeta {
		v, ok := DecodeVLQ(data[2:])
		if !ok {
			return 0
		}
		return int(v.Quantity)
	}
	return c.Length
}

// Event returns the event's classification, or false when the bytes do
// not form a recognized message.
func (e ChunkEvent) Event() (Classification, bool) {
	return Classify(e.ComputedData(), 0)
}

// Message exposes the self-contained event bytes as a MIDI message for
// display and interop.
func (e ChunkEvent) Message() midi.Message {
	return midi.Message(e.ComputedData())
}

// Describe returns a short human-readable description of the event.
func (e ChunkEvent) Describe() string {
	c, ok := e.Event()
	if !ok {
		return "unrecognized"
	}
	switch c.Kind {
	case KindMeta:
		return fmt.Sprintf("meta 0x%02X len %d", e.TypeByte(), e.Length())
	case KindSysEx:
		return fmt.Sprintf("sysex len %d", e.Length())
	default:
		return e.Message().String()
	}
}

// Trim returns a copy of the event with its body shortened to n bytes,
// keeping the VLQ delta-time prefix intact. The receiver is returned
// unchanged when n does not shorten the body.
func (e ChunkEvent) Trim(n int) ChunkEvent {
	v, ok := DecodeVLQ(e.Data)
	if !ok {
		return e
	}
	body := e.Data[v.Length():]
	if n < 0 || n >= len(body) {
		return e
	}
	trimmed := make([]byte, 0, v.Length()+n)
	trimmed = append(trimmed, v.Data...)
	trimmed = append(trimmed, body[:n]...)
	out := e
	out.Data = trimmed
	return out
}
