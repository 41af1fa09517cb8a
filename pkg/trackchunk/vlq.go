package trackchunk

// VLQ encoding constants
const (
	vlqContinuationBit = 0x80
	vlqDataMask        = 0x7F
	vlqMaxBytes        = 4
)

// VLQ is a decoded variable-length quantity. Data holds the raw encoded
// bytes exactly as they appeared in the source buffer, so non-canonical
// (zero-padded) encodings survive a decode/re-emit cycle unchanged.
type VLQ struct {
	Quantity uint32
	Data     []byte
}

// Length returns the number of bytes consumed from the source buffer.
func (v VLQ) Length() int {
	return len(v.Data)
}

// DecodeVLQ reads a variable-length quantity from the start of buf.
// Each byte contributes its low 7 bits, most significant group first,
// and the run ends at the first byte without the continuation bit set.
// Returns false when buf is empty or the run never terminates within
// the 4-byte cap or the available bytes.
func DecodeVLQ(buf []byte) (VLQ, bool) {
	var q uint32
	for i := 0; i < len(buf) && i < vlqMaxBytes; i++ {
		b := buf[i]
		q = q<<7 | uint32(b&vlqDataMask)
		if b&vlqContinuationBit == 0 {
			data := make([]byte, i+1)
			copy(data, buf[:i+1])
			return VLQ{Quantity: q, Data: data}, true
		}
	}
	return VLQ{}, false
}

// EncodeVLQ encodes q as a minimal-length variable-length quantity:
// big-endian 7-bit groups with the continuation bit set on every byte
// except the last.
func EncodeVLQ(q uint32) []byte {
	n := 1
	for v := q >> 7; v > 0; v >>= 7 {
		n++
	}
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(q) & vlqDataMask
		q >>= 7
	}
	for i := 0; i < n-1; i++ {
		out[i] |= vlqContinuationBit
	}
	return out
}
