package trackchunk

// Wire format marker bytes
const (
	MetaPrefix = 0xFF
	SysExStart = 0xF0
	SysExEnd   = 0xF7
)

// EventKind is the closed set of event shapes a track body can contain.
type EventKind uint8

const (
	// KindMeta is a 0xFF-prefixed metadata record with a VLQ length field.
	KindMeta EventKind = iota
	// KindSysEx is a system-exclusive message, either 0xF0-initiated and
	// terminator-bounded or a 0xF7 escape with a declared length byte.
	KindSysEx
	// KindStatus is a channel voice/mode message (0x80-0xEF).
	KindStatus
	// KindSystemCommand is a system common or real-time message.
	KindSystemCommand
)

func (k EventKind) String() string {
	switch k {
	case KindMeta:
		return "meta"
	case KindSysEx:
		return "sysex"
	case KindStatus:
		return "status"
	case KindSystemCommand:
		return "system"
	default:
		return "unknown"
	}
}

// Classification describes one event at a buffer position: its kind,
// the effective status byte (resolved through running status), the
// number of body bytes it occupies at that position, and whether the
// status byte was carried over rather than present.
type Classification struct {
	Kind    EventKind
	Status  byte
	Length  int
	Running bool
}

// channelMessageLength returns the fixed total length of a channel
// voice/mode message for the given status byte, or 0 if the byte is
// not a channel status.
func channelMessageLength(status byte) int {
	switch status >> 4 {
	case 0x8, 0x9, 0xA, 0xB, 0xE:
		return 3
	case 0xC, 0xD:
		return 2
	default:
		return 0
	}
}

// systemCommandLength returns the fixed total length of a defined
// system common/real-time message. 0xF0 and 0xF7 are SysEx-class and
// handled elsewhere; 0xF4 and 0xF5 are undefined and not recognized.
func systemCommandLength(status byte) (int, bool) {
	switch status {
	case 0xF1, 0xF3:
		return 2, true
	case 0xF2:
		return 3, true
	case 0xF6, 0xF8, 0xF9, 0xFA, 0xFB, 0xFC, 0xFD, 0xFE, 0xFF:
		return 1, true
	default:
		return 0, false
	}
}

// statusLength returns the fixed message length for any status byte
// that has one, or 0 for SysEx-class and unrecognized bytes.
func statusLength(status byte) int {
	if n := channelMessageLength(status); n > 0 {
		return n
	}
	if n, ok := systemCommandLength(status); ok {
		return n
	}
	return 0
}

// Classify determines the event beginning at buf[0], given the status
// byte currently carried by running status (0 when none is in scope).
// Rules are tried in priority order: meta, SysEx, explicit status,
// running-status continuation. Returns false when none apply, which
// callers treat as the end of decodable data rather than a failure.
func Classify(buf []byte, running byte) (Classification, bool) {
	if len(buf) == 0 {
		return Classification{}, false
	}
	b := buf[0]

	if b == MetaPrefix && len(buf) >= 2 {
		v, ok := DecodeVLQ(buf[2:])
		if !ok {
			return Classification{}, false
		}
		return Classification{
			Kind:   KindMeta,
			Status: b,
			Length: 2 + v.Length() + int(v.Quantity),
		}, true
	}

	if b == SysExStart {
		// Bounded by the first 0xF7 terminator; a missing terminator
		// consumes the rest of the buffer rather than failing.
		length := len(buf)
		for i := 1; i < len(buf); i++ {
			if buf[i] == SysExEnd {
				length = i + 1
				break
			}
		}
		return Classification{Kind: KindSysEx, Status: b, Length: length}, true
	}

	if b == SysExEnd {
		// SysEx escape: the only command whose length is carried in
		// the next data byte.
		if len(buf) < 2 {
			return Classification{}, false
		}
		length := 2 + int(buf[1])
		if length > len(buf) {
			length = len(buf)
		}
		return Classification{Kind: KindSysEx, Status: b, Length: length}, true
	}

	if n := channelMessageLength(b); n > 0 {
		return Classification{Kind: KindStatus, Status: b, Length: n}, true
	}

	if n, ok := systemCommandLength(b); ok {
		return Classification{Kind: KindSystemCommand, Status: b, Length: n}, true
	}

	if b < 0x80 && running != 0 {
		// Data byte with a status in scope: the event reuses the
		// carried status and omits its own status byte.
		n := statusLength(running)
		if n > 1 {
			kind := KindStatus
			if running >= 0xF0 {
				kind = KindSystemCommand
			}
			return Classification{Kind: kind, Status: running, Length: n - 1, Running: true}, true
		}
	}

	return Classification{}, false
}

// nextRunningStatus returns the running status in effect after an
// event with the given classification. Meta and SysEx events clear it;
// explicit status bytes replace it; carried-over events leave it.
func nextRunningStatus(c Classification, running byte) byte {
	switch {
	case c.Kind == KindMeta || c.Kind == KindSysEx:
		return 0
	case c.Running:
		return running
	default:
		return c.Status
	}
}
