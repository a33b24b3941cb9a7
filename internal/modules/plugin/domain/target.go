package domain

import (
	"fmt"
	"strings"
)

type Identifier struct {
	Value string
}

func (i Identifier) IsWildcard() bool {
	return strings.HasPrefix(i.Value, "*.")
}

type TargetPart struct {
	Identifiers []Identifier
}

// Target is the set of identifiers a certificate is requested for.
type Target struct {
	Name  string
	Parts []TargetPart
}

func NewTarget(name string, hosts ...string) (Target, error) {
	part := TargetPart{}
	for _, host := range hosts {
		value := strings.ToLower(strings.TrimSpace(host))
		if value == "" {
			return Target{}, fmt.Errorf("empty identifier in target %q", name)
		}
		part.Identifiers = append(part.Identifiers, Identifier{Value: value})
	}
	if len(part.Identifiers) == 0 {
		return Target{}, fmt.Errorf("target %q has no identifiers", name)
	}
	if name == "" {
		name = part.Identifiers[0].Value
	}
	return Target{Name: name, Parts: []TargetPart{part}}, nil
}

func (t Target) Identifiers() []Identifier {
	out := make([]Identifier, 0)
	for _, part := range t.Parts {
		out = append(out, part.Identifiers...)
	}
	return out
}

func (t Target) HasWildcard() bool {
	for _, identifier := range t.Identifiers() {
		if identifier.IsWildcard() {
			return true
		}
	}
	return false
}
