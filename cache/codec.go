package cache

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec is the binary-safe serialization used for cache payloads.
// Round-trips must be exact: Unmarshal(Marshal(v)) yields an equal
// value for any record payload.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, dst any) error
}

// MsgpackCodec encodes payloads as msgpack. Decoding is loose so that
// interface values come back with canonical widths: integers as int64,
// floats as float64.
type MsgpackCodec struct{}

// Marshal implements Codec.
func (MsgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal implements Codec.
func (MsgpackCodec) Unmarshal(data []byte, dst any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	return dec.Decode(dst)
}

var _ Codec = MsgpackCodec{}
