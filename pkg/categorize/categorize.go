// Package categorize assigns a spending category to a transaction
// description using an ordered keyword rule list. Evaluation order is part
// of the contract: the first matching rule wins, which breaks ties between
// keywords that would otherwise match several categories.
package categorize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Labels returned by the default rule set.
const (
	Other   = "Other"
	Savings = "Savings"
)

// Rule matches a description against a set of keywords. A rule matches when
// the lowercased description contains any of its keywords.
type Rule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

func (r Rule) matches(desc string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

var defaultRules = []Rule{
	{Label: "Airtime & Data", Keywords: []string{"airtime", "data"}},
	{Label: "Food & Lifestyle", Keywords: []string{"cold stone", "food", "restaurant"}},
	{Label: "Transfers", Keywords: []string{"transfer"}},
	{Label: Savings, Keywords: []string{"auto-save", "owallet", "piggy", "save"}},
	{Label: "Gaming & Betting", Keywords: []string{"bet", "sporty"}},
	{Label: "Cash Withdrawal", Keywords: []string{"atm", "pos", "withdrawal"}},
}

// Categorizer holds an ordered rule list. It is immutable after creation
// and safe for concurrent use.
type Categorizer struct {
	rules []Rule
}

// New returns a categorizer with the built-in rule set.
func New() *Categorizer {
	return &Categorizer{rules: defaultRules}
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads an ordered rule list from a YAML file. Keywords are lowercased
// on load so matching stays case-insensitive.
func Load(path string) (*Categorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s has no rules", path)
	}

	for i := range f.Rules {
		r := &f.Rules[i]
		if r.Label == "" || len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d is missing a label or keywords", i)
		}
		for j, kw := range r.Keywords {
			r.Keywords[j] = strings.ToLower(kw)
		}
	}
	return &Categorizer{rules: f.Rules}, nil
}

// Categorize maps a free-text description to a category label. It is a pure
// total function: every description gets a label, defaulting to Other.
func (c *Categorizer) Categorize(description string) string {
	desc := strings.ToLower(description)
	for _, r := range c.rules {
		if r.matches(desc) {
			return r.Label
		}
	}
	return Other
}

// Categorize applies the built-in rule set.
func Categorize(description string) string {
	return New().Categorize(description)
}
