// Package trackchunk decodes and recomposes Standard MIDI File track
// chunks. A chunk's byte stream is a sequence of (VLQ delta-time,
// event body) pairs; decoding materializes ordered ChunkEvents and
// recomposing re-emits the stream byte-for-byte, regenerating the
// chunk header length. Both are pure functions over the raw buffer, so
// concurrent use over independent chunks needs no synchronization.
package trackchunk

import (
	"encoding/binary"
	"errors"
)

const (
	chunkTag   = "MTrk"
	headerSize = 8

	// DefaultTimeDivision is the ticks-per-beat assumed when no file
	// header supplies one.
	DefaultTimeDivision = 480
)

// Structural errors returned by Parse.
var (
	ErrShortChunk     = errors.New("trackchunk: buffer too short for a track chunk")
	ErrBadChunkType   = errors.New("trackchunk: chunk type is not MTrk")
	ErrLengthMismatch = errors.New("trackchunk: declared length exceeds available bytes")
)

// TrackChunk is one MTrk-tagged chunk. RawData holds the complete
// chunk bytes including the 8-byte header (4-byte ASCII tag plus
// 4-byte big-endian length) and is never mutated by decoding or
// recomposing.
type TrackChunk struct {
	RawData      []byte
	TimeDivision uint16
}

// Parse validates and copies a track chunk out of raw. It fails when
// fewer than 9 bytes are supplied, the tag is not MTrk, or the
// declared length overruns the buffer; trailing bytes beyond the
// declared length are dropped.
func Parse(raw []byte) (*TrackChunk, error) {
	if len(raw) < headerSize+1 {
		return nil, ErrShortChunk
	}
	if string(raw[:4]) != chunkTag {
		return nil, ErrBadChunkType
	}
	declared := int(binary.BigEndian.Uint32(raw[4:headerSize]))
	if declared+headerSize > len(raw) {
		return nil, ErrLengthMismatch
	}
	data := make([]byte, declared+headerSize)
	copy(data, raw)
	return &TrackChunk{RawData: data, TimeDivision: DefaultTimeDivision}, nil
}

// Events decodes the chunk body into its ordered event sequence.
// Delta-times accumulate into each event's TimeOffset. A position that
// fails to classify ends decoding there, keeping the events already
// produced; partial files are common enough that best-effort beats
// rejection.
func (t *TrackChunk) Events() []ChunkEvent {
	body := t.RawData[headerSize:]
	var events []ChunkEvent
	var accumulated uint32
	pos := 0
	running := byte(0)
	for pos < len(body) {
		v, ok := DecodeVLQ(body[pos:])
		if !ok {
			break
		}
		bodyStart := pos + v.Length()
		c, ok := Classify(body[bodyStart:], running)
		if !ok {
			break
		}
		end := bodyStart + c.Length
		if end > len(body) {
			end = len(body)
		}
		data := make([]byte, end-pos)
		copy(data, body[pos:end])
		ev := ChunkEvent{
			Data:         data,
			TimeDivision: t.TimeDivision,
			TimeOffset:   accumulated,
		}
		if c.Running {
			ev.RunningStatus = c.Status
		}
		events = append(events, ev)
		accumulated += v.Quantity
		running = nextRunningStatus(c, running)
		if end <= pos {
			break
		}
		pos = end
	}
	return events
}

// Recompose walks the chunk body the same way Events does and emits a
// reconstruction of the stream onto a fresh buffer, regenerating the
// header's 4-byte length from the rebuilt body. For an unedited track
// the result is byte-identical to RawData.
//
// Compatibility quirk: some captured files carry SysEx escapes whose
// declared length overruns the real 0xF7 terminator, swallowing the
// next event's delta-time into the SysEx body. When a SysEx-class body
// contains its terminator before its final byte, the event is trimmed
// to the terminator-bounded length and the following delta-time VLQ is
// not re-emitted. This is deliberately limited to SysEx events;
// getting the boundary wrong here corrupts every event after it.
func (t *TrackChunk) Recompose() []byte {
	body := t.RawData[headerSize:]
	rebuilt := make([]byte, 0, len(body))
	pos := 0
	running := byte(0)
	skipVLQ := false
	for pos < len(body) {
		start := pos
		var vlqBytes []byte
		if skipVLQ {
			skipVLQ = false
		} else {
			v, ok := DecodeVLQ(body[pos:])
			if !ok {
				break
			}
			vlqBytes = v.Data
			pos += v.Length()
		}
		c, ok := Classify(body[pos:], running)
		if !ok {
			break
		}
		end := pos + c.Length
		if end > len(body) {
			end = len(body)
		}
		eventBytes := body[pos:end]
		if c.Kind == KindSysEx {
			if i := sysexTerminator(eventBytes); i >= 0 && i < len(eventBytes)-1 {
				eventBytes = eventBytes[:i+1]
				skipVLQ = true
			}
		}
		rebuilt = append(rebuilt, vlqBytes...)
		rebuilt = append(rebuilt, eventBytes...)
		running = nextRunningStatus(c, running)
		if end <= start {
			break
		}
		pos = end
	}
	out := make([]byte, 0, headerSize+len(rebuilt))
	out = append(out, chunkTag...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(rebuilt)))
	return append(out, rebuilt...)
}

// sysexTerminator returns the index of the first 0xF7 terminator in a
// SysEx-class body, ignoring the leading marker and, for 0xF7 escapes,
// the length byte. -1 when no terminator is present.
func sysexTerminator(body []byte) int {
	from := 1
	if len(body) > 0 && body[0] == SysExEnd {
		from = 2
	}
	for i := from; i < len(body); i++ {
		if body[i] == SysExEnd {
			return i
		}
	}
	return -1
}
