package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNoTarget           = errors.New("no target plugin selected")
	ErrConsoleUnavailable = errors.New("console input unavailable")
)

// RunLevel is a flag set selecting how much the operator is asked.
type RunLevel int

const (
	RunLevelUnattended RunLevel = 1 << iota
	RunLevelInteractive
	RunLevelAdvanced
	RunLevelTest
)

func (r RunLevel) Has(flag RunLevel) bool {
	return r&flag == flag
}

func (r RunLevel) String() string {
	names := make([]string, 0, 4)
	for _, item := range []struct {
		flag RunLevel
		name string
	}{
		{RunLevelUnattended, "unattended"},
		{RunLevelInteractive, "interactive"},
		{RunLevelAdvanced, "advanced"},
		{RunLevelTest, "test"},
	} {
		if r.Has(item.flag) {
			names = append(names, item.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// Choice is one labeled menu option.
type Choice struct {
	Label          string
	Default        bool
	Disabled       bool
	DisabledReason string
}

// Verdict is the merged static and dynamic usability of a candidate.
type Verdict struct {
	Unusable bool
	Reason   string
}

// Defaults holds the configured default plugin names per step.
type Defaults struct {
	Source         string
	Validation     string
	ValidationMode string
	Order          string
	Csr            string
	Store          string
	Installation   string
}

// Arguments are command-line overrides; they take precedence over Defaults.
type Arguments struct {
	Validation     string
	ValidationMode string
	Store          string
	Installation   string
}

// SplitList parses a comma separated list of plugin names.
func SplitList(raw string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ChainOverride returns the list entry for the next chain position, which is
// the number of entries already chosen, or "" once the list is exhausted.
func ChainOverride(raw string, chosen int) string {
	items := SplitList(raw)
	if chosen < 0 || chosen >= len(items) {
		return ""
	}
	return items[chosen]
}

// FirstNonBlank returns the first value that is not empty after trimming.
func FirstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

type PlanRecord struct {
	ID            string
	CreatedAt     time.Time
	TargetName    string
	Identifiers   []string
	RunLevel      string
	Target        string
	Validation    string
	Order         string
	Csr           string
	Stores        []string
	Installations []string
}
