package globals

import (
	"fmt"
	"strconv"

	starlarkjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"gopkg.in/yaml.v3"
)

// MarshalJSON renders m as a JSON object. Dict keys that are numbers,
// booleans or None are written as strings, the way Python's json module
// does.
func (m *Map) MarshalJSON() ([]byte, error) {
	obj := starlark.NewDict(m.Len())
	for _, name := range m.names {
		v, err := jsonValue(m.values[name])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		if err := obj.SetKey(starlark.String(name), v); err != nil {
			return nil, err
		}
	}
	thread := &starlark.Thread{Name: "json"}
	out, err := starlark.Call(thread, starlarkjson.Module.Members["encode"], starlark.Tuple{obj}, nil)
	if err != nil {
		return nil, err
	}
	s, _ := starlark.AsString(out)
	return []byte(s), nil
}

func jsonValue(v starlark.Value) (starlark.Value, error) {
	switch v := v.(type) {
	case starlark.Bytes:
		return starlark.String(v), nil
	case *starlark.List, starlark.Tuple:
		seq := v.(starlark.Indexable)
		items := make([]starlark.Value, seq.Len())
		for i := range items {
			item, err := jsonValue(seq.Index(i))
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return starlark.NewList(items), nil
	case *starlark.Dict:
		obj := starlark.NewDict(v.Len())
		for _, item := range v.Items() {
			k, err := jsonKey(item[0])
			if err != nil {
				return nil, err
			}
			val, err := jsonValue(item[1])
			if err != nil {
				return nil, err
			}
			if err := obj.SetKey(k, val); err != nil {
				return nil, err
			}
		}
		return obj, nil
	}
	return v, nil
}

func jsonKey(k starlark.Value) (starlark.String, error) {
	switch k := k.(type) {
	case starlark.String:
		return k, nil
	case starlark.Bytes:
		return starlark.String(k), nil
	case starlark.Int:
		return starlark.String(k.String()), nil
	case starlark.Float:
		return starlark.String(strconv.FormatFloat(float64(k), 'g', -1, 64)), nil
	case starlark.Bool:
		return starlark.String(strconv.FormatBool(bool(k))), nil
	case starlark.NoneType:
		return "null", nil
	}
	return "", fmt.Errorf("cannot use %s as a JSON object key", k.Type())
}

// MarshalYAML renders m as a YAML mapping in binding order.
func (m *Map) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range m.names {
		v, err := yamlNode(m.values[name])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		node.Content = append(node.Content, scalar("!!str", name), v)
	}
	return node, nil
}

func yamlNode(v starlark.Value) (*yaml.Node, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return scalar("!!null", "null"), nil
	case starlark.Bool:
		return scalar("!!bool", strconv.FormatBool(bool(v))), nil
	case starlark.Int:
		return scalar("!!int", v.String()), nil
	case starlark.Float:
		return scalar("!!float", strconv.FormatFloat(float64(v), 'g', -1, 64)), nil
	case starlark.String:
		return scalar("!!str", string(v)), nil
	case starlark.Bytes:
		return scalar("!!str", string(v)), nil
	case starlark.Indexable:
		// list and tuple
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for i := 0; i < v.Len(); i++ {
			item, err := yamlNode(v.Index(i))
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, item)
		}
		return seq, nil
	case *starlark.Dict:
		mapping := &yaml.Node{Kind: yaml.MappingNode}
		for _, item := range v.Items() {
			k, err := yamlNode(item[0])
			if err != nil {
				return nil, err
			}
			val, err := yamlNode(item[1])
			if err != nil {
				return nil, err
			}
			mapping.Content = append(mapping.Content, k, val)
		}
		return mapping, nil
	}
	return nil, fmt.Errorf("cannot encode %s value", v.Type())
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
