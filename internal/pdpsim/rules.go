package pdpsim

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
)

// Rule allows a user (or group) to perform matching operations on
// matching resources. Patterns are shell globs; an empty pattern
// matches everything.
type Rule struct {
	User      string `json:"user,omitempty"`
	Group     string `json:"group,omitempty"`
	Operation string `json:"operation,omitempty"`
	Resource  string `json:"resource,omitempty"`
}

// RuleDecider evaluates declarative allow rules, deny by default.
type RuleDecider struct {
	Rules []Rule
}

// LoadRules reads a JSON rule file of the form {"rules": [...]}.
func LoadRules(filePath string) (*RuleDecider, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var doc struct {
		Rules []Rule `json:"rules"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", filePath, err)
	}
	return &RuleDecider{Rules: doc.Rules}, nil
}

// Len reports how many rules are loaded.
func (d *RuleDecider) Len() int { return len(d.Rules) }

// DenyAll refuses everything. It is the fallback when no rule file and
// no FGA endpoint are configured.
type DenyAll struct{}

func (DenyAll) Decide(ctx context.Context, in Input) (bool, error) { return false, nil }

func (d *RuleDecider) Decide(ctx context.Context, in Input) (bool, error) {
	for _, rule := range d.Rules {
		if rule.matches(in) {
			return true, nil
		}
	}
	return false, nil
}

func (r Rule) matches(in Input) bool {
	if !globMatch(r.User, in.Context.Identity.User) {
		return false
	}
	if r.Group != "" && !anyGlobMatch(r.Group, in.Context.Identity.Groups) {
		return false
	}
	if !globMatch(r.Operation, in.Action.Operation) {
		return false
	}
	return globMatch(r.Resource, in.Action.Resource.Name())
}

func globMatch(pattern, value string) bool {
	if pattern == "" {
		return true
	}
	ok, err := path.Match(pattern, value)
	return err == nil && ok
}

func anyGlobMatch(pattern string, values []string) bool {
	for _, v := range values {
		if globMatch(pattern, v) {
			return true
		}
	}
	return false
}
