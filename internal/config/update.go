package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const secretMask = "********"

// SetPrinter adds or replaces a printer profile in the config file. It
// preserves the existing YAML structure and comments, and creates the file
// when it does not exist yet.
func SetPrinter(configPath, name string, p Printer) error {
	var root yaml.Node

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// An empty file decodes to a zero node
	if root.Kind == 0 {
		root = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{{
				Kind: yaml.MappingNode,
				Tag:  "!!map",
			}},
		}
		setMapValue(root.Content[0], "version", scalar(fmt.Sprint(CurrentConfigVersion), "!!int"))
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	docNode := root.Content[0]
	if docNode.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	printersNode := findMapValue(docNode, "printers")
	if printersNode == nil || printersNode.Kind != yaml.MappingNode {
		printersNode = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		setMapValue(docNode, "printers", printersNode)
	}

	var profile yaml.Node
	if err := profile.Encode(p); err != nil {
		return fmt.Errorf("failed to encode printer: %w", err)
	}
	setMapValue(printersNode, name, &profile)

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// The file may hold printer credentials
	if err := os.WriteFile(configPath, []byte(buf.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Show writes cfg as YAML with secrets masked. Secrets that reference an
// environment variable are shown as written.
func Show(w io.Writer, cfg *Config) error {
	masked := *cfg
	masked.Printers = make(map[string]Printer, len(cfg.Printers))
	for name, p := range cfg.Printers {
		p.APIKey = mask(p.APIKey)
		p.Password = mask(p.Password)
		masked.Printers[name] = p
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&masked); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return encoder.Close()
}

func mask(secret string) string {
	if _, ok := envReference(secret); ok || secret == "" {
		return secret
	}
	return secretMask
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}

// setMapValue replaces the value of key in a mapping node, or appends it.
func setMapValue(node *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Kind == yaml.ScalarNode && node.Content[i].Value == key {
			node.Content[i+1] = value
			return
		}
	}
	node.Content = append(node.Content, scalar(key, "!!str"), value)
}

func scalar(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
