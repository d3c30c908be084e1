package config

import (
	"encoding"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// ToMap converts a config struct into a map[string]any suitable for any
// artifact codec. Field names follow json tags. Values that carry a text
// form are normalized to strings: types implementing
// encoding.TextMarshaler (string-backed and int-backed enums, version
// values) and time.Duration.
func ToMap(v any) (map[string]any, error) {
	var out map[string]any
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: toTextHook(),
		Result:     &out,
		TagName:    "json",
	})
	if err != nil {
		return nil, fmt.Errorf("config: build encoder: %w", err)
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("config: encode %T: %w", v, err)
	}
	return out, nil
}

// FromMap fills the config struct pointed to by target from a plain map, the
// inverse of ToMap. String values are parsed back into enum types
// implementing encoding.TextUnmarshaler and into time.Duration fields.
func FromMap(m map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return fmt.Errorf("config: build decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("config: decode into %T: %w", target, err)
	}
	return nil
}

// toTextHook renders TextMarshaler values and durations as strings when the
// target is untyped, as it is for map[string]any values.
func toTextHook() mapstructure.DecodeHookFuncValue {
	return func(from, to reflect.Value) (any, error) {
		if to.Kind() != reflect.Interface && to.Kind() != reflect.String {
			return from.Interface(), nil
		}

		switch val := from.Interface().(type) {
		case time.Duration:
			return val.String(), nil
		case encoding.TextMarshaler:
			text, err := val.MarshalText()
			if err != nil {
				return nil, err
			}
			return string(text), nil
		}
		return from.Interface(), nil
	}
}
