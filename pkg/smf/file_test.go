package smf

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// makeFile builds an SMF byte buffer with the given division and track
// bodies.
func makeFile(division uint16, bodies ...[]byte) []byte {
	out := []byte(headerTag)
	out = binary.BigEndian.AppendUint32(out, 6)
	out = binary.BigEndian.AppendUint16(out, 1)
	out = binary.BigEndian.AppendUint16(out, uint16(len(bodies)))
	out = binary.BigEndian.AppendUint16(out, division)
	for _, body := range bodies {
		out = append(out, trackTag...)
		out = binary.BigEndian.AppendUint32(out, uint32(len(body)))
		out = append(out, body...)
	}
	return out
}

var testBody = []byte{
	0x00, 0x90, 0x3C, 0x40,
	0x78, 0x80, 0x3C, 0x00,
	0x00, 0xFF, 0x2F, 0x00,
}

func TestParse(t *testing.T) {
	data := makeFile(96, testBody, testBody)

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Header.Tag != headerTag {
		t.Errorf("header tag = %q, want %q", f.Header.Tag, headerTag)
	}
	if f.Header.Division != 96 {
		t.Errorf("division = %d, want 96", f.Header.Division)
	}
	if len(f.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(f.Tracks))
	}
	for i, track := range f.Tracks {
		if track.TimeDivision != 96 {
			t.Errorf("track %d division = %d, want 96", i, track.TimeDivision)
		}
		if len(track.Events()) != 3 {
			t.Errorf("track %d has %d events, want 3", i, len(track.Events()))
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrNotSMF},
		{"not midi", []byte("RIFF\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"), ErrNotSMF},
		{"smpte division", makeFile(0xE728, testBody), ErrSMPTEDivision},
		{"no tracks", makeFile(480), ErrNoTracks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if err != tt.want {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBytesRoundTrip(t *testing.T) {
	data := makeFile(480, testBody)

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !bytes.Equal(f.Bytes(), data) {
		t.Errorf("Bytes() = % X\nwant % X", f.Bytes(), data)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"smf", makeFile(480, testBody), FormatSMF},
		{"bare track", append([]byte("MTrk\x00\x00\x00\x00"), 0x00), FormatTrack},
		{"short", []byte{0x01}, FormatUnknown},
		{"other", []byte("RIFF0000"), FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunks(t *testing.T) {
	file := makeFile(480, testBody)
	tracks, err := Chunks(file)
	if err != nil {
		t.Fatalf("Chunks(smf) error = %v", err)
	}
	if len(tracks) != 1 {
		t.Errorf("got %d tracks from file, want 1", len(tracks))
	}

	bare := file[headerSize:]
	tracks, err = Chunks(bare)
	if err != nil {
		t.Fatalf("Chunks(track) error = %v", err)
	}
	if len(tracks) != 1 {
		t.Errorf("got %d tracks from bare chunk, want 1", len(tracks))
	}

	if _, err := Chunks([]byte("nope")); err == nil {
		t.Error("Chunks(garbage) expected an error")
	}
}
