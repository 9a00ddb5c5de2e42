package formz

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec defines the deserialization contract for form values and column
// schemas. Implement this interface to use alternative formats.
type Codec interface {
	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Unmarshal deserializes YAML bytes into v. Decoded mappings are normalized
// to map[string]any so the result can be addressed with a Path.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return err
	}
	if tree, ok := v.(*any); ok {
		*tree = normalizeTree(*tree)
	}
	return nil
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
)

// DecodeValues decodes data into a values tree suitable for Initialize.
func DecodeValues(codec Codec, data []byte) (any, error) {
	var tree any
	if err := codec.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return normalizeTree(tree), nil
}

// normalizeTree converts map[any]any nodes into map[string]any.
func normalizeTree(node any) any {
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			n[k] = normalizeTree(v)
		}
		return n
	case map[any]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			key, ok := k.(string)
			if !ok {
				key = fmt.Sprint(k)
			}
			out[key] = normalizeTree(v)
		}
		return out
	case []any:
		for i, v := range n {
			n[i] = normalizeTree(v)
		}
		return n
	default:
		return node
	}
}
