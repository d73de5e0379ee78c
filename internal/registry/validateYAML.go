package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"SearchAPI/internal/query"
)

var allowedEntityKeys = map[string]bool{
	"table":  true,
	"fields": true,
}

var allowedFieldKeys = map[string]bool{
	"name":       true,
	"kind":       true,
	"column":     true,
	"searchable": true,
	"filterable": true,
}

// validateYAMLNode rejects unknown keys and kind values before decoding, so a
// typo such as "filtrable" fails loudly instead of silently hiding a field.
func validateYAMLNode(node *yaml.Node, context string) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := validateYAMLNode(child, "entity"); err != nil {
				return err
			}
		}

	case yaml.MappingNode:
		var allowedKeys map[string]bool
		switch context {
		case "entity":
			allowedKeys = allowedEntityKeys
		case "field":
			allowedKeys = allowedFieldKeys
		}

		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			val := node.Content[i+1]

			if allowedKeys != nil && !allowedKeys[key] {
				return fmt.Errorf("unknown key '%s' in %s", key, context)
			}
			if context == "field" && key == "kind" {
				if _, err := query.ParseKind(val.Value); err != nil {
					return fmt.Errorf("line %d: %w", val.Line, err)
				}
			}

			next := context
			if context == "entity" && key == "fields" {
				next = "fields-seq"
			} else if context == "field" {
				next = "field-value"
			}
			if err := validateYAMLNode(val, next); err != nil {
				return err
			}
		}

	case yaml.SequenceNode:
		next := context
		if context == "fields-seq" {
			next = "field"
		}
		for _, item := range node.Content {
			if err := validateYAMLNode(item, next); err != nil {
				return err
			}
		}

	case yaml.ScalarNode:
		if context == "fields-seq" {
			return fmt.Errorf("line %d: fields must be a list of mappings", node.Line)
		}
	}
	return nil
}
