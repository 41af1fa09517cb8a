package trackchunk

import (
	"bytes"
	"testing"
)

func TestChunkEventMetaBoundary(t *testing.T) {
	ev := ChunkEvent{
		Data:         []byte{0x00, 0xFF, 0x01, 0x03, 'a', 'b', 'c'},
		TimeDivision: DefaultTimeDivision,
	}

	if got := ev.Length(); got != 3 {
		t.Errorf("Length() = %d, want 3", got)
	}
	want := []byte{0xFF, 0x01, 0x03, 'a', 'b', 'c'}
	if !bytes.Equal(ev.RawEventData(), want) {
		t.Errorf("RawEventData() = % X, want % X", ev.RawEventData(), want)
	}
	if got := ev.TypeByte(); got != 0x01 {
		t.Errorf("TypeByte() = %#x, want 0x01", got)
	}
	c, ok := ev.Event()
	if !ok {
		t.Fatal("Event() returned no value")
	}
	if c.Kind != KindMeta {
		t.Errorf("Event().Kind = %v, want %v", c.Kind, KindMeta)
	}
}

func TestChunkEventRunningStatus(t *testing.T) {
	// A note-on that omitted its status byte, carried over from 0x90.
	ev := ChunkEvent{
		Data:          []byte{0x00, 0x3C, 0x40},
		RunningStatus: 0x90,
		TimeDivision:  DefaultTimeDivision,
	}

	if got := ev.TypeByte(); got != 0x90 {
		t.Errorf("TypeByte() = %#x, want 0x90", got)
	}
	want := []byte{0x90, 0x3C, 0x40}
	if !bytes.Equal(ev.ComputedData(), want) {
		t.Errorf("ComputedData() = % X, want % X", ev.ComputedData(), want)
	}
	if !bytes.Equal(ev.RawEventData(), []byte{0x3C, 0x40}) {
		t.Errorf("RawEventData() = % X, want 3C 40", ev.RawEventData())
	}
	if got := ev.Length(); got != 3 {
		t.Errorf("Length() = %d, want 3", got)
	}
}

func TestChunkEventTiming(t *testing.T) {
	ev := ChunkEvent{
		Data:         []byte{0x78, 0x90, 0x3C, 0x40}, // delta 120
		TimeDivision: 480,
		TimeOffset:   360,
	}

	if got := ev.DeltaTime(); got != 120 {
		t.Errorf("DeltaTime() = %d, want 120", got)
	}
	if got := ev.AbsoluteTime(); got != 480 {
		t.Errorf("AbsoluteTime() = %d, want 480", got)
	}
	if got := ev.Position(); got != 1.0 {
		t.Errorf("Position() = %f, want 1.0", got)
	}
}

func TestChunkEventPositionDefaultsDivision(t *testing.T) {
	ev := ChunkEvent{Data: []byte{0x78, 0xF8}} // delta 120, no division set
	if got := ev.Position(); got != 0.25 {
		t.Errorf("Position() = %f, want 0.25", got)
	}
}

func TestChunkEventTrim(t *testing.T) {
	ev := ChunkEvent{
		Data:         []byte{0x00, 0xF0, 0x02, 0xAA, 0xF7, 0x00, 0x90},
		TimeDivision: DefaultTimeDivision,
	}

	trimmed := ev.Trim(4)
	want := []byte{0x00, 0xF0, 0x02, 0xAA, 0xF7}
	if !bytes.Equal(trimmed.Data, want) {
		t.Errorf("Trim(4).Data = % X, want % X", trimmed.Data, want)
	}

	// The original is untouched.
	if len(ev.Data) != 7 {
		t.Errorf("original event mutated: % X", ev.Data)
	}

	// Trims that do not shorten return the event unchanged.
	same := ev.Trim(10)
	if !bytes.Equal(same.Data, ev.Data) {
		t.Errorf("Trim(10) changed data: % X", same.Data)
	}
	same = ev.Trim(-1)
	if !bytes.Equal(same.Data, ev.Data) {
		t.Errorf("Trim(-1) changed data: % X", same.Data)
	}
}

func TestChunkEventMessage(t *testing.T) {
	ev := ChunkEvent{
		Data:          []byte{0x00, 0x3C, 0x40},
		RunningStatus: 0x90,
	}
	if !bytes.Equal([]byte(ev.Message()), []byte{0x90, 0x3C, 0x40}) {
		t.Errorf("Message() = % X, want 90 3C 40", []byte(ev.Message()))
	}
	if ev.Describe() == "" {
		t.Error("Describe() returned empty string")
	}
}
