package trackchunk

import (
	"bytes"
	"testing"
)

func TestDecodeVLQ(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		quantity uint32
		length   int
	}{
		{"zero", []byte{0x00}, 0, 1},
		{"single byte max", []byte{0x7F}, 0x7F, 1},
		{"two bytes min", []byte{0x81, 0x00}, 0x80, 2},
		{"two bytes max", []byte{0xFF, 0x7F}, 0x3FFF, 2},
		{"three bytes", []byte{0x81, 0x80, 0x00}, 0x4000, 3},
		{"four bytes max", []byte{0xFF, 0xFF, 0xFF, 0x7F}, 0x0FFFFFFF, 4},
		{"padded non-canonical zero", []byte{0x80, 0x00}, 0, 2},
		{"stops at terminator", []byte{0x00, 0x7F, 0x7F}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := DecodeVLQ(tt.input)
			if !ok {
				t.Fatalf("DecodeVLQ(% X) returned no value", tt.input)
			}
			if v.Quantity != tt.quantity {
				t.Errorf("quantity = %d, want %d", v.Quantity, tt.quantity)
			}
			if v.Length() != tt.length {
				t.Errorf("length = %d, want %d", v.Length(), tt.length)
			}
			if !bytes.Equal(v.Data, tt.input[:tt.length]) {
				t.Errorf("data = % X, want % X", v.Data, tt.input[:tt.length])
			}
		})
	}
}

func TestDecodeVLQNoValue(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"truncated single", []byte{0x80}},
		{"truncated run", []byte{0x81, 0x82, 0x83}},
		{"continuation past cap", []byte{0x80, 0x80, 0x80, 0x80, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := DecodeVLQ(tt.input); ok {
				t.Errorf("DecodeVLQ(% X) = ok, want no value", tt.input)
			}
		})
	}
}

func TestVLQRoundTrip(t *testing.T) {
	boundaries := []uint32{
		0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0x1FFFFF, 0x200000, 0x0FFFFFFF,
	}
	for _, q := range boundaries {
		encoded := EncodeVLQ(q)
		v, ok := DecodeVLQ(encoded)
		if !ok {
			t.Fatalf("DecodeVLQ(EncodeVLQ(%d)) returned no value", q)
		}
		if v.Quantity != q {
			t.Errorf("round trip of %d = %d", q, v.Quantity)
		}
		if v.Length() != len(encoded) {
			t.Errorf("round trip of %d: length %d, encoded %d bytes", q, v.Length(), len(encoded))
		}
	}

	// Sweep a sample of the full range.
	for q := uint32(0); q < 0x0FFFFFFF; q += 0x0003FFB {
		v, ok := DecodeVLQ(EncodeVLQ(q))
		if !ok || v.Quantity != q {
			t.Fatalf("round trip of %d failed (got %d, ok=%v)", q, v.Quantity, ok)
		}
	}
}

func TestEncodeVLQMinimal(t *testing.T) {
	tests := []struct {
		quantity uint32
		want     []byte
	}{
		{0, []byte{0x00}},
		{0x40, []byte{0x40}},
		{0x80, []byte{0x81, 0x00}},
		{0x2000, []byte{0xC0, 0x00}},
		{0x4000, []byte{0x81, 0x80, 0x00}},
		{0x0FFFFFFF, []byte{0xFF, 0xFF, 0xFF, 0x7F}},
	}

	for _, tt := range tests {
		got := EncodeVLQ(tt.quantity)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("EncodeVLQ(%#x) = % X, want % X", tt.quantity, got, tt.want)
		}
	}
}
