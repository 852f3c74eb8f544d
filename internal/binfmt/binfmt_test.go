package binfmt

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

func TestHeader_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := Header{Kind: "venue", SchemaVersion: 3, Count: 42}

	if err := WriteHeader(&buf, want); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}

	got, err := ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if got != want {
		t.Errorf("ReadHeader() = %+v, want %+v", got, want)
	}
}

func TestReadHeader_Rejects(t *testing.T) {
	valid := func() []byte {
		var buf bytes.Buffer
		_ = WriteHeader(&buf, Header{Kind: "venue", SchemaVersion: 1, Count: 1})
		return buf.Bytes()
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "bad magic",
			data:    append([]byte("NOPE"), valid()[4:]...),
			wantErr: ErrBadMagic,
		},
		{
			name: "future format version",
			data: func() []byte {
				b := valid()
				b[4] = 9
				return b
			}(),
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "truncated",
			data:    valid()[:7],
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:    "empty",
			data:    nil,
			wantErr: io.EOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadHeader() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecord_Fields(t *testing.T) {
	when := time.Date(2025, 7, 4, 20, 30, 0, 0, time.UTC)

	enc := NewEncoder()
	enc.String("Main Hall")
	enc.Int(500)
	enc.Enum(3)
	enc.Bool(true)
	enc.Float64(4.5)
	enc.Time(when)
	enc.Time(time.Time{})
	enc.Strings([]string{"stage", "lights"})
	Ints(enc, []int{7, 8, 9})
	Ints[int](enc, nil)

	var buf bytes.Buffer
	if err := WriteRecord(&buf, enc.Bytes()); err != nil {
		t.Fatalf("WriteRecord() error = %v", err)
	}
	payload, err := ReadRecord(&buf)
	if err != nil {
		t.Fatalf("ReadRecord() error = %v", err)
	}

	dec := NewDecoder(payload)
	if got := dec.String(); got != "Main Hall" {
		t.Errorf("String() = %q", got)
	}
	if got := dec.Int(); got != 500 {
		t.Errorf("Int() = %d", got)
	}
	if got := dec.Enum(); got != 3 {
		t.Errorf("Enum() = %d", got)
	}
	if got := dec.Bool(); !got {
		t.Error("Bool() = false")
	}
	if got := dec.Float64(); got != 4.5 {
		t.Errorf("Float64() = %v", got)
	}
	if got := dec.Time(); !got.Equal(when) {
		t.Errorf("Time() = %v, want %v", got, when)
	}
	if got := dec.Time(); !got.IsZero() {
		t.Errorf("zero Time() = %v", got)
	}
	if got := dec.Strings(); len(got) != 2 || got[1] != "lights" {
		t.Errorf("Strings() = %v", got)
	}
	if got := ReadInts[int](dec); len(got) != 3 || got[2] != 9 {
		t.Errorf("ReadInts() = %v", got)
	}
	if got := ReadInts[int](dec); got != nil {
		t.Errorf("empty ReadInts() = %v, want nil", got)
	}
	if err := dec.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestDecoder_StickyError(t *testing.T) {
	enc := NewEncoder()
	enc.String("short")

	// Cut the payload in the middle of the string.
	dec := NewDecoder(enc.Bytes()[:6])
	if got := dec.String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
	if got := dec.Int(); got != 0 {
		t.Errorf("Int() after error = %d, want 0", got)
	}
	if !errors.Is(dec.Err(), io.ErrUnexpectedEOF) {
		t.Errorf("Err() = %v, want unexpected EOF", dec.Err())
	}
}

func TestDecoder_LengthLimit(t *testing.T) {
	enc := NewEncoder()
	enc.Uint32(MaxLength + 1)

	dec := NewDecoder(enc.Bytes())
	_ = dec.String()
	if !errors.Is(dec.Err(), ErrTooLarge) {
		t.Errorf("Err() = %v, want ErrTooLarge", dec.Err())
	}
}
