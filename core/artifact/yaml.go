package artifact

import "gopkg.in/yaml.v3"

// YAMLCodec stores artifacts as YAML, the format of human-edited configs.
type YAMLCodec struct{}

func (YAMLCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (YAMLCodec) Ext() string { return "yaml" }
