// Package smf provides the minimal Standard MIDI File container
// handling around track chunks: locating MTrk chunks in a .mid file,
// handing each to the track codec with the header's time division, and
// re-emitting the file from recomposed tracks.
package smf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/ghostiam/binstruct"
	"github.com/james-see/mtrktool/pkg/trackchunk"
)

const (
	headerTag  = "MThd"
	trackTag   = "MTrk"
	headerSize = 14
)

var (
	// ErrNotSMF is returned when the data does not start with an MThd chunk.
	ErrNotSMF = errors.New("smf: missing MThd header")
	// ErrSMPTEDivision is returned for SMPTE time divisions; the codec
	// is fixed to ticks-per-beat.
	ErrSMPTEDivision = errors.New("smf: SMPTE time divisions are not supported")
	// ErrNoTracks is returned when a file contains no MTrk chunks.
	ErrNoTracks = errors.New("smf: no MTrk chunks found")
)

// Header mirrors the 14-byte MThd chunk.
type Header struct {
	Tag       string `bin:"len:4"`
	Length    uint32
	Format    uint16
	NumTracks uint16
	Division  uint16
}

// File is a parsed Standard MIDI File: its header and track chunks.
type File struct {
	Header Header
	Tracks []*trackchunk.TrackChunk
}

// ReadFile reads and parses a .mid file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return Parse(data)
}

// Parse parses SMF data into its header and track chunks. Chunks with
// unrecognized tags are skipped; tracks inherit the header's
// ticks-per-beat division.
func Parse(data []byte) (*File, error) {
	if len(data) < headerSize || string(data[:4]) != headerTag {
		return nil, ErrNotSMF
	}

	var h Header
	if err := binstruct.UnmarshalBE(data[:headerSize], &h); err != nil {
		return nil, fmt.Errorf("failed to decode MThd header: %w", err)
	}
	if h.Division&0x8000 != 0 {
		return nil, ErrSMPTEDivision
	}

	f := &File{Header: h}
	pos := 8 + int(h.Length)
	for pos+8 <= len(data) {
		tag := string(data[pos : pos+4])
		length := int(binary.BigEndian.Uint32(data[pos+4 : pos+8]))
		end := pos + 8 + length
		if end > len(data) {
			break
		}
		if tag == trackTag {
			track, err := trackchunk.Parse(data[pos:end])
			if err != nil {
				return nil, fmt.Errorf("failed to parse track %d: %w", len(f.Tracks), err)
			}
			track.TimeDivision = h.Division
			f.Tracks = append(f.Tracks, track)
		}
		pos = end
	}
	if len(f.Tracks) == 0 {
		return nil, ErrNoTracks
	}
	return f, nil
}

// Bytes re-emits the file: a fresh MThd header followed by each track
// run through the recomposer. For unedited input the result is
// byte-identical to the original file when it carried no alien chunks.
func (f *File) Bytes() []byte {
	out := make([]byte, 0, headerSize)
	out = append(out, headerTag...)
	out = binary.BigEndian.AppendUint32(out, 6)
	out = binary.BigEndian.AppendUint16(out, f.Header.Format)
	out = binary.BigEndian.AppendUint16(out, uint16(len(f.Tracks)))
	out = binary.BigEndian.AppendUint16(out, f.Header.Division)
	for _, t := range f.Tracks {
		out = append(out, t.Recompose()...)
	}
	return out
}

// WriteFile writes the re-emitted file to path.
func (f *File) WriteFile(path string) error {
	return os.WriteFile(path, f.Bytes(), 0644)
}

// Format represents the shape of an uploaded or opened byte buffer.
type Format string

const (
	FormatSMF     Format = "smf"
	FormatTrack   Format = "track"
	FormatUnknown Format = "unknown"
)

// DetectFormat reports whether data is a whole SMF file, a bare MTrk
// chunk, or neither.
func DetectFormat(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}
	switch string(data[:4]) {
	case headerTag:
		return FormatSMF
	case trackTag:
		return FormatTrack
	default:
		return FormatUnknown
	}
}

// Chunks extracts track chunks from data, accepting either a whole SMF
// file or a single bare MTrk chunk.
func Chunks(data []byte) ([]*trackchunk.TrackChunk, error) {
	switch DetectFormat(data) {
	case FormatSMF:
		f, err := Parse(data)
		if err != nil {
			return nil, err
		}
		return f.Tracks, nil
	case FormatTrack:
		track, err := trackchunk.Parse(data)
		if err != nil {
			return nil, err
		}
		return []*trackchunk.TrackChunk{track}, nil
	default:
		return nil, ErrNotSMF
	}
}
