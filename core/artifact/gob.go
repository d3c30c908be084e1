package artifact

import (
	"bytes"
	"encoding/gob"
)

// GobCodec stores artifacts as gob-encoded binary blobs. Suitable for
// arbitrary Go values that have no canonical text representation, such as
// raw sample tensors.
type GobCodec struct{}

func (GobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (GobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (GobCodec) Ext() string { return "gob" }
