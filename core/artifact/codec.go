package artifact

// Codec serializes artifact values. Implementations are stateless and safe
// for concurrent use.
type Codec interface {
	// Marshal serializes the value into its on-disk representation.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into the value pointed to by v.
	Unmarshal(data []byte, v any) error
	// Ext returns the file extension of the format, without a leading dot.
	Ext() string
}

// Type enumerates the supported artifact formats.
type Type string

const (
	TypeJSON   Type = "json"
	TypeYAML   Type = "yaml"
	TypeGob    Type = "gob"
	TypeJSONGz Type = "json.gz"
	TypeGobGz  Type = "gob.gz"
)

// Valid checks whether the type names a known format.
func (t Type) Valid() bool {
	return t.Codec() != nil
}

// Codec returns the codec for the type, or nil for an unknown type.
func (t Type) Codec() Codec {
	switch t {
	case TypeJSON:
		return JSONCodec{}
	case TypeYAML:
		return YAMLCodec{}
	case TypeGob:
		return GobCodec{}
	case TypeJSONGz:
		return GzipCodec{Inner: JSONCodec{}}
	case TypeGobGz:
		return GzipCodec{Inner: GobCodec{}}
	default:
		return nil
	}
}

// Ext returns the file extension of the type, without a leading dot.
func (t Type) Ext() string {
	c := t.Codec()
	if c == nil {
		return ""
	}
	return c.Ext()
}
