package binfmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

// Encoder builds a record payload.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded payload.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// String writes a length-prefixed string.
func (e *Encoder) String(s string) {
	e.Uint32(uint32(len(s)))
	e.buf.WriteString(s)
}

// Uint32 writes a fixed 4-byte unsigned integer.
func (e *Encoder) Uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

// Int64 writes a fixed 8-byte signed integer.
func (e *Encoder) Int64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	e.buf.Write(b[:])
}

// Int writes an int as 8 bytes.
func (e *Encoder) Int(v int) {
	e.Int64(int64(v))
}

// Enum writes the underlying value of an enum as int32.
func (e *Encoder) Enum(v int) {
	e.Uint32(uint32(int32(v)))
}

// Bool writes a single byte, 1 for true.
func (e *Encoder) Bool(v bool) {
	if v {
		e.buf.WriteByte(1)
		return
	}
	e.buf.WriteByte(0)
}

// Float64 writes the IEEE 754 bits of v.
func (e *Encoder) Float64(v float64) {
	e.Int64(int64(math.Float64bits(v)))
}

// Time writes t as an RFC 3339 UTC string; the zero time is written as "".
func (e *Encoder) Time(t time.Time) {
	if t.IsZero() {
		e.String("")
		return
	}
	e.String(t.UTC().Format(time.RFC3339Nano))
}

// Count writes the length of a list whose elements follow.
func (e *Encoder) Count(n int) {
	e.Uint32(uint32(n))
}

// Strings writes a counted list of strings.
func (e *Encoder) Strings(ss []string) {
	e.Uint32(uint32(len(ss)))
	for _, s := range ss {
		e.String(s)
	}
}

// Ints writes a counted list of integer IDs.
func Ints[K ~int](e *Encoder, ids []K) {
	e.Uint32(uint32(len(ids)))
	for _, id := range ids {
		e.Int(int(id))
	}
}

// Decoder reads a record payload. The first error is kept and every later read
// returns a zero value.
type Decoder struct {
	r   *bytes.Reader
	err error
}

// NewDecoder returns a Decoder over payload.
func NewDecoder(payload []byte) *Decoder {
	return &Decoder{r: bytes.NewReader(payload)}
}

// Err returns the first error encountered while decoding.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *Decoder) read(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n > d.r.Len() {
		d.fail(fmt.Errorf("decode: %w", io.ErrUnexpectedEOF))
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		d.fail(fmt.Errorf("decode: %w", err))
		return nil
	}
	return b
}

// Uint32 reads a fixed 4-byte unsigned integer.
func (d *Decoder) Uint32() uint32 {
	b := d.read(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// Int64 reads a fixed 8-byte signed integer.
func (d *Decoder) Int64() int64 {
	b := d.read(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

// Int reads an int written by Encoder.Int.
func (d *Decoder) Int() int {
	return int(d.Int64())
}

// Enum reads an int32 enum value.
func (d *Decoder) Enum() int {
	return int(int32(d.Uint32()))
}

// Bool reads a single-byte boolean.
func (d *Decoder) Bool() bool {
	b := d.read(1)
	if b == nil {
		return false
	}
	return b[0] != 0
}

// Float64 reads IEEE 754 bits written by Encoder.Float64.
func (d *Decoder) Float64() float64 {
	return math.Float64frombits(uint64(d.Int64()))
}

// String reads a length-prefixed string.
func (d *Decoder) String() string {
	n := d.length()
	if n == 0 {
		return ""
	}
	b := d.read(n)
	if b == nil {
		return ""
	}
	return string(b)
}

// Time reads a time written by Encoder.Time.
func (d *Decoder) Time() time.Time {
	s := d.String()
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		d.fail(fmt.Errorf("decode time %q: %w", s, err))
		return time.Time{}
	}
	return t.UTC()
}

// Count reads a list length written by Encoder.Count.
func (d *Decoder) Count() int {
	return d.length()
}

// Strings reads a counted list of strings. An empty list decodes as nil.
func (d *Decoder) Strings() []string {
	n := d.length()
	if n == 0 {
		return nil
	}
	out := make([]string, 0, d.capacity(n))
	for i := 0; i < n && d.err == nil; i++ {
		out = append(out, d.String())
	}
	return out
}

// ReadInts reads a counted list of integer IDs. An empty list decodes as nil.
func ReadInts[K ~int](d *Decoder) []K {
	n := d.length()
	if n == 0 {
		return nil
	}
	out := make([]K, 0, d.capacity(n))
	for i := 0; i < n && d.err == nil; i++ {
		out = append(out, K(d.Int()))
	}
	return out
}

// length reads a u32 length prefix.
func (d *Decoder) length() int {
	n := d.Uint32()
	if d.err != nil {
		return 0
	}
	if n > MaxLength {
		d.fail(ErrTooLarge)
		return 0
	}
	return int(n)
}

// capacity bounds a list preallocation by what is left in the payload.
func (d *Decoder) capacity(n int) int {
	return min(n, d.r.Len())
}
