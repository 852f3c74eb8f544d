package binfmt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic opens every data file.
const Magic = "CMGR"

// FormatVersion is the version of the framing itself (header and record layout).
const FormatVersion uint16 = 1

// MaxLength bounds any single length prefix (strings, lists and records).
const MaxLength = 16 << 20

var (
	// ErrBadMagic is returned when a file does not start with Magic.
	ErrBadMagic = errors.New("binfmt: bad magic")

	// ErrUnsupportedVersion is returned for a format or schema version this build cannot read.
	ErrUnsupportedVersion = errors.New("binfmt: unsupported version")

	// ErrKindMismatch is returned when a file holds a different entity kind than expected.
	ErrKindMismatch = errors.New("binfmt: entity kind mismatch")

	// ErrTooLarge is returned when a length prefix exceeds MaxLength.
	ErrTooLarge = errors.New("binfmt: length exceeds limit")
)

// Header describes the contents of a data file.
type Header struct {
	// Kind names the entity type stored in the file, e.g. "venue".
	Kind string

	// SchemaVersion is the codec version the records were written with.
	SchemaVersion uint16

	// Count is the number of records that follow the header.
	Count uint32
}

// WriteHeader writes the file header.
func WriteHeader(w io.Writer, h Header) error {
	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, FormatVersion); err != nil {
		return err
	}
	if err := writeString(w, h.Kind); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, h.SchemaVersion); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, h.Count)
}

// ReadHeader reads and checks the file header.
//
// The magic and framing version are validated here; the kind and schema version are
// returned for the caller to check against its codec.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return h, fmt.Errorf("read magic: %w", err)
	}
	if string(magic) != Magic {
		return h, ErrBadMagic
	}

	var format uint16
	if err := binary.Read(r, binary.LittleEndian, &format); err != nil {
		return h, fmt.Errorf("read format version: %w", err)
	}
	if format != FormatVersion {
		return h, fmt.Errorf("%w: format %d", ErrUnsupportedVersion, format)
	}

	kind, err := readString(r)
	if err != nil {
		return h, fmt.Errorf("read kind: %w", err)
	}
	h.Kind = kind

	if err := binary.Read(r, binary.LittleEndian, &h.SchemaVersion); err != nil {
		return h, fmt.Errorf("read schema version: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Count); err != nil {
		return h, fmt.Errorf("read count: %w", err)
	}
	return h, nil
}

// WriteRecord writes one length-prefixed record payload.
func WriteRecord(w io.Writer, payload []byte) error {
	if len(payload) > MaxLength {
		return ErrTooLarge
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadRecord reads one length-prefixed record payload.
func ReadRecord(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n > MaxLength {
		return nil, ErrTooLarge
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > MaxLength {
		return ErrTooLarge
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n > MaxLength {
		return "", ErrTooLarge
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
