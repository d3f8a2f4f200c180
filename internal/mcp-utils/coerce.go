package mcputils

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ArgumentGetter is the request-side surface the binder needs.
type ArgumentGetter interface {
	GetArguments() map[string]interface{}
}

// CoerceBindArguments binds MCP request arguments to a target struct,
// coercing stringified payloads along the way. Agent clients routinely
// send every parameter as a string, including JSON-encoded arrays such
// as a methods list passed back from an earlier analysis call; the
// decode hook unwinds those before mapstructure fills the target.
//
// Field mapping follows json tags, so tool wire names and binding names
// stay identical.
func CoerceBindArguments[T any](request ArgumentGetter, target *T) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonStringHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(request.GetArguments())
}

// jsonStringHook turns JSON-looking strings into the value the target
// field expects. Strings that do not parse pass through unchanged so
// mapstructure can report the real type mismatch.
func jsonStringHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if f.Kind() != reflect.String {
		return data, nil
	}
	raw, ok := data.(string)
	if !ok || raw == "" {
		return data, nil
	}

	trimmed := strings.TrimSpace(raw)

	switch t.Kind() {
	case reflect.Slice:
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			// Unmarshal into the concrete slice type so element structs
			// (method descriptors and the like) decode in one step.
			slicePtr := reflect.New(t)
			if err := json.Unmarshal([]byte(trimmed), slicePtr.Interface()); err == nil {
				return slicePtr.Elem().Interface(), nil
			}
		}
	case reflect.Map, reflect.Struct:
		if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
			var result interface{}
			if err := json.Unmarshal([]byte(trimmed), &result); err == nil {
				return result, nil
			}
		}
	case reflect.Bool:
		if trimmed == "true" || trimmed == "false" {
			return trimmed == "true", nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		var number json.Number
		if err := json.Unmarshal([]byte(trimmed), &number); err == nil {
			// mapstructure finishes the numeric conversion.
			return number, nil
		}
	}

	return data, nil
}
