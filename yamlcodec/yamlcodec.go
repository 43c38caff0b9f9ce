// Package yamlcodec converts between the intermediate value representation
// and YAML documents. Conversion goes through yaml.Node trees rather than
// interface{} so that mapping key order survives into ordered builds.
package yamlcodec

import (
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/value"
)

// Marshal encodes an intermediate value as a YAML document.
func Marshal(v value.Value) ([]byte, error) {
	node, err := encodeNode(v)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, errors.New(errors.PhaseSerialize, errors.KindCustom).
			Detail("cannot encode YAML").
			Cause(err).
			Build()
	}
	return out, nil
}

// Unmarshal decodes a YAML document into an intermediate value. Numbers
// narrow the same way the JSON codec narrows them: signed integer, then
// unsigned integer, then float. An empty document decodes to None.
func Unmarshal(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return value.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidValue).
			Detail("malformed YAML").
			Cause(err).
			Build()
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return value.None(), nil
	}
	return decodeNode(doc.Content[0])
}

func encodeNode(v value.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case value.KindNone:
		return scalarNode("!!null", "null"), nil
	case value.KindBool:
		b, _ := v.AsBool()
		return scalarNode("!!bool", strconv.FormatBool(b)), nil
	case value.KindNumber:
		n, _ := v.AsNumber()
		return encodeNumber(n), nil
	case value.KindString:
		s, _ := v.AsString()
		return scalarNode("!!str", s), nil
	case value.KindArray:
		arr, _ := v.AsArray()
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range arr {
			child, err := encodeNode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case value.KindMap:
		m, _ := v.AsMap()
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var encodeErr error
		m.Range(func(key string, elem value.Value) bool {
			child, err := encodeNode(elem)
			if err != nil {
				encodeErr = err
				return false
			}
			node.Content = append(node.Content, scalarNode("!!str", key), child)
			return true
		})
		if encodeErr != nil {
			return nil, encodeErr
		}
		return node, nil
	}
	return nil, errors.Custom(errors.PhaseSerialize, "unknown value kind %v", v.Kind())
}

func encodeNumber(n value.Number) *yaml.Node {
	if n.Kind() != value.NumFloat {
		return scalarNode("!!int", n.String())
	}
	f := n.Float64()
	switch {
	case math.IsNaN(f):
		return scalarNode("!!float", ".nan")
	case math.IsInf(f, 1):
		return scalarNode("!!float", ".inf")
	case math.IsInf(f, -1):
		return scalarNode("!!float", "-.inf")
	}
	return scalarNode("!!float", strconv.FormatFloat(f, 'g', -1, 64))
}

func scalarNode(tag, val string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val}
}

func decodeNode(node *yaml.Node) (value.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return decodeScalar(node)
	case yaml.SequenceNode:
		elems := make([]value.Value, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := decodeNode(child)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, v)
		}
		return value.ArrayOf(elems), nil
	case yaml.MappingNode:
		m := value.NewMapCapacity(len(node.Content) / 2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return value.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidKey).
					Detail("mapping keys must be scalars (line %d)", keyNode.Line).
					Build()
			}
			v, err := decodeNode(valNode)
			if err != nil {
				return value.Value{}, err
			}
			m.Set(keyNode.Value, v)
		}
		return value.MapValue(m), nil
	case yaml.AliasNode:
		return decodeNode(node.Alias)
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return value.None(), nil
		}
		return decodeNode(node.Content[0])
	}
	return value.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidValue).
		Expected("YAML node").
		Build()
}

func decodeScalar(node *yaml.Node) (value.Value, error) {
	switch node.Tag {
	case "!!null":
		return value.None(), nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return value.Value{}, scalarError(node, "bool", err)
		}
		return value.Bool(b), nil
	case "!!int":
		if i, err := strconv.ParseInt(node.Value, 0, 64); err == nil {
			return value.Int(i), nil
		}
		u, err := strconv.ParseUint(node.Value, 0, 64)
		if err != nil {
			return value.Value{}, scalarError(node, "integer", err)
		}
		return value.Uint(u), nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			switch node.Value {
			case ".nan", ".NaN", ".NAN":
				return value.Float(math.NaN()), nil
			case ".inf", ".Inf", ".INF", "+.inf":
				return value.Float(math.Inf(1)), nil
			case "-.inf", "-.Inf", "-.INF":
				return value.Float(math.Inf(-1)), nil
			}
			return value.Value{}, scalarError(node, "float", err)
		}
		return value.Float(f), nil
	default:
		// !!str and unrecognized custom tags decode as strings.
		return value.Str(node.Value), nil
	}
}

func scalarError(node *yaml.Node, expected string, cause error) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidValue).
		Expected(expected).
		Value(node.Value).
		Detail("line %d", node.Line).
		Cause(cause).
		Build()
}
