// Package binfmt implements the on-disk record format used by every entity store.
//
// A data file is a header followed by length-prefixed records:
//
//	magic "CMGR" | format version u16 | kind string | schema version u16 | count u32
//	record: payload length u32 | payload bytes
//
// All integers are little-endian. Inside a payload, strings are a u32 length followed
// by raw UTF-8 bytes, enums are int32, booleans one byte and times an RFC 3339 UTC
// string ("" for the zero time). Lists are a u32 count followed by their elements.
//
// # Writing
//
//	enc := binfmt.NewEncoder()
//	enc.String(v.Name)
//	enc.Int(v.Capacity)
//	err := binfmt.WriteRecord(w, enc.Bytes())
//
// # Reading
//
// Decoder keeps the first error it hits and returns zero values afterwards, so a
// record can be read field by field and checked once:
//
//	dec := binfmt.NewDecoder(payload)
//	v.Name = dec.String()
//	v.Capacity = dec.Int()
//	if err := dec.Err(); err != nil {
//	    return nil, err
//	}
//
// The schema version in the header belongs to the entity codec. Files written with an
// older schema are handed to the codec together with that version; files written with
// a newer one are rejected with ErrUnsupportedVersion.
package binfmt
