package artifact

import (
	"bytes"
	"encoding/json"
)

// JSONCodec stores artifacts as indented JSON, the default format for
// configs and statistics.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSONCodec) Ext() string { return "json" }
