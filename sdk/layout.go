package sdk

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrUnexpectedEOF is returned by Reader when a record is shorter than its layout.
var ErrUnexpectedEOF = errors.New("unexpected EOF")

// ------------------------------------------------------------------
// Writer
// ------------------------------------------------------------------

// Writer appends fixed-width little-endian fields. Records are laid out the
// same on every substrate so the declared space is exact.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) Len() int { return w.buf.Len() }

func (w *Writer) WriteRaw(b []byte) { w.buf.Write(b) }

func (w *Writer) WriteUint8(v uint8) { w.buf.WriteByte(v) }

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteAddress(a Address) { w.buf.Write(a[:]) }

// WriteString writes a u32 length prefix then the bytes, and pads with zeros up
// to budget so the field always takes 4+budget bytes.
func (w *Writer) WriteString(s string, budget int) error {
	if len(s) > budget {
		return errors.Errorf("string of %d bytes exceeds budget %d", len(s), budget)
	}
	w.WriteUint32(uint32(len(s)))
	w.buf.WriteString(s)
	if pad := budget - len(s); pad > 0 {
		w.buf.Write(make([]byte, pad))
	}
	return nil
}

// ------------------------------------------------------------------
// Reader
// ------------------------------------------------------------------

// Reader mirrors Writer.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadRaw(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Errorf("invalid bool byte %d", b)
	}
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadAddress() (Address, error) {
	b, err := r.take(AddressLength)
	if err != nil {
		return ZeroAddress, err
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// ReadString reads a field written by WriteString with the same budget and
// skips the padding.
func (r *Reader) ReadString(budget int) (string, error) {
	l, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	if int(l) > budget {
		return "", errors.Errorf("string length %d exceeds budget %d", l, budget)
	}
	b, err := r.take(budget)
	if err != nil {
		return "", err
	}
	return string(b[:l]), nil
}
