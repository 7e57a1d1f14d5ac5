package manifest

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// indent is the number of spaces per nesting level in the encoded document.
const indent = 2

// Marshal encodes the manifest as a block-style YAML document with lexicographically sorted keys.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(indent)

	if err := encoder.Encode(m.Node()); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("flush manifest: %w", err)
	}

	return buf.Bytes(), nil
}

// Node builds the YAML mapping for the manifest.
func (m *Manifest) Node() *yaml.Node {
	fields := fieldSet{
		"name":    stringNode(m.Name),
		"vendor":  stringNode(m.Vendor),
		"icon":    stringNode(m.Icon),
		"version": quotedNode(m.Version),
	}

	if len(m.Architectures) > 0 {
		fields["architectures"] = stringsNode(m.Architectures)
	}

	if m.Frameworks != nil {
		fields["frameworks"] = stringsNode(m.Frameworks)
	}

	if m.Binaries != nil {
		binaries := sequenceNode()
		for _, binary := range m.Binaries {
			binaries.Content = append(binaries.Content, fieldSet{
				"name": stringNode(binary.Name),
				"exec": stringNode(binary.Exec),
			}.node())
		}

		fields["binaries"] = binaries
	}

	if m.Services != nil {
		services := sequenceNode()
		for _, service := range m.Services {
			entry := fieldSet{
				"name":  stringNode(service.Name),
				"start": stringNode(service.Start),
			}
			if service.Stop != nil {
				entry["stop"] = stringNode(*service.Stop)
			}

			services.Content = append(services.Content, entry.node())
		}

		fields["services"] = services
	}

	return fields.node()
}

// fieldSet collects the values of one mapping before they are emitted in key order.
type fieldSet map[string]*yaml.Node

// node emits the mapping with keys sorted; map iteration order is never relied on.
func (f fieldSet) node() *yaml.Node {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range keys {
		mapping.Content = append(mapping.Content, stringNode(key), f[key])
	}

	return mapping
}

// stringNode lets the encoder quote the value only where a plain scalar would be ambiguous.
func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func quotedNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.SingleQuotedStyle}
}

func sequenceNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func stringsNode(values []string) *yaml.Node {
	seq := sequenceNode()
	for _, value := range values {
		seq.Content = append(seq.Content, stringNode(value))
	}

	return seq
}
