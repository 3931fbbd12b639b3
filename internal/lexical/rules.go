package lexical

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed prohibited.yaml
var defaultProhibited []byte

type ruleFile struct {
	Version int       `yaml:"version"`
	Rules   []Pattern `yaml:"rules"`
}

// LoadRules parses a YAML rule file into patterns.
func LoadRules(data []byte) ([]Pattern, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("rules file has no rules")
	}
	return rf.Rules, nil
}

// LoadRulesFile reads and compiles a rule file from disk.
func LoadRulesFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	ps, err := LoadRules(data)
	if err != nil {
		return nil, err
	}
	return Compile(ps)
}

var prohibited = sync.OnceValue(func() *Set {
	ps, err := LoadRules(defaultProhibited)
	if err != nil {
		panic(err)
	}
	return MustCompile(ps...)
})

// Prohibited returns the embedded prohibited-content rule set.
func Prohibited() *Set { return prohibited() }
