package rules

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

type ruleFile struct {
	Rules []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
		Response string   `yaml:"response"`
		Priority int      `yaml:"priority"`
	} `yaml:"rules"`
}

// Load parses a YAML rule file. Rules keep the order they appear in.
func Load(data []byte) (*Table, error) {
	var raw ruleFile
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: error parsing yaml: %v", ErrInvalidTable, err)
	}

	entries := make([]Entry, 0, len(raw.Rules))
	for _, rule := range raw.Rules {
		entries = append(entries, Entry{
			Name:     rule.Name,
			Keywords: rule.Keywords,
			Response: rule.Response,
			Priority: rule.Priority,
		})
	}

	return NewTable(entries)
}

func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rule file %s: %w", path, err)
	}

	table, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("error loading rule file %s: %w", path, err)
	}
	return table, nil
}

// Default returns the built-in UKUVI rule table.
func Default() *Table {
	table, err := Load(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rule table is invalid: %v", err))
	}
	return table
}

func DefaultYAML() []byte {
	return append([]byte(nil), defaultRulesYAML...)
}
