package artifact

import (
	"bytes"
	"compress/gzip"
	"io"
)

// GzipCodec compresses the output of an inner codec. Useful for large
// artifacts such as per-sample blobs or full dataset statistics.
type GzipCodec struct {
	Inner Codec
}

func (c GzipCodec) Marshal(v any) ([]byte, error) {
	data, err := c.Inner.Marshal(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c GzipCodec) Unmarshal(data []byte, v any) error {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer zr.Close() //nolint:errcheck

	raw, err := io.ReadAll(zr)
	if err != nil {
		return err
	}
	return c.Inner.Unmarshal(raw, v)
}

func (c GzipCodec) Ext() string { return c.Inner.Ext() + ".gz" }
