package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Step string

const (
	StepTarget       Step = "target"
	StepValidation   Step = "validation"
	StepOrder        Step = "order"
	StepCsr          Step = "csr"
	StepStore        Step = "store"
	StepInstallation Step = "installation"
)

// Steps returns every step in pipeline order.
func Steps() []Step {
	return []Step{StepTarget, StepValidation, StepOrder, StepCsr, StepStore, StepInstallation}
}

func ParseStep(raw string) (Step, error) {
	step := Step(strings.ToLower(strings.TrimSpace(raw)))
	if err := step.Validate(); err != nil {
		return "", err
	}
	return step, nil
}

func (s Step) Validate() error {
	switch s {
	case StepTarget, StepValidation, StepOrder, StepCsr, StepStore, StepInstallation:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStep, string(s))
	}
}

// UsesSubMode reports whether lookups for this step also match on a sub-mode.
func (s Step) UsesSubMode() bool {
	return s == StepValidation
}

const (
	ChallengeHTTP01    = "http-01"
	ChallengeDNS01     = "dns-01"
	ChallengeTLSALPN01 = "tls-alpn-01"
)

// ChallengePriority ranks challenge types for menu ordering.
func ChallengePriority(challengeType string) int {
	switch challengeType {
	case ChallengeHTTP01:
		return 0
	case ChallengeDNS01:
		return 1
	case ChallengeTLSALPN01:
		return 2
	default:
		return 3
	}
}

type Capability string

const (
	CapabilityWildcard        Capability = "wildcard"
	CapabilityMultiIdentifier Capability = "multi_identifier"
)

func (c Capability) Validate() error {
	switch c {
	case CapabilityWildcard, CapabilityMultiIdentifier:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

var (
	ErrUnknownStep      = errors.New("unknown step")
	ErrPluginDisabled   = errors.New("plugin is disabled")
	ErrChecksumMismatch = errors.New("plugin checksum mismatch")
	ErrDuplicatePlugin  = errors.New("duplicate plugin")
)

// Descriptor is the immutable catalog record of one plugin implementation.
type Descriptor struct {
	ID            string
	Name          string
	Description   string
	Order         int
	Step          Step
	Hidden        bool
	Null          bool
	ChallengeType string
	External      bool
	Version       string
}

func (d Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("plugin id is required")
	}
	if d.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if err := d.Step.Validate(); err != nil {
		return err
	}
	if d.ChallengeType != "" && d.Step != StepValidation {
		return fmt.Errorf("challenge type is only allowed on validation plugins: %s", d.ID)
	}
	if d.Step == StepValidation && d.ChallengeType == "" {
		return fmt.Errorf("validation plugin %s requires a challenge type", d.ID)
	}
	return nil
}

// Matches compares name case-insensitively. The sub-mode only takes part
// for steps that use it, and only when one was given.
func (d Descriptor) Matches(name string, subMode string) bool {
	if !strings.EqualFold(d.Name, strings.TrimSpace(name)) {
		return false
	}
	subMode = strings.TrimSpace(subMode)
	if d.Step.UsesSubMode() && subMode != "" {
		return strings.EqualFold(d.ChallengeType, subMode)
	}
	return true
}

func (d Descriptor) String() string {
	if d.ChallengeType != "" {
		return fmt.Sprintf("%s (%s)", d.Name, d.ChallengeType)
	}
	return d.Name
}

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes an external plugin binary registered in plugins.yaml.
type Manifest struct {
	Name          string       `yaml:"name"`
	Version       string       `yaml:"version"`
	Binary        string       `yaml:"binary"`
	SHA256        string       `yaml:"sha256"`
	Enabled       bool         `yaml:"enabled"`
	Step          Step         `yaml:"step"`
	Description   string       `yaml:"description"`
	Order         int          `yaml:"order"`
	ChallengeType string       `yaml:"challenge_type"`
	Hidden        bool         `yaml:"hidden"`
	Capabilities  []Capability `yaml:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	if err := m.Step.Validate(); err != nil {
		return err
	}
	if m.Step == StepValidation && m.ChallengeType == "" {
		return fmt.Errorf("validation plugin %s requires a challenge_type", m.Name)
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// ExternalID is the runner identifier assigned to a manifest plugin.
func (m Manifest) ExternalID() string {
	return "external." + string(m.Step) + "." + strings.ToLower(m.Name)
}

func (m Manifest) Descriptor() Descriptor {
	description := m.Description
	if description == "" {
		description = m.Name
	}
	return Descriptor{
		ID:            m.ExternalID(),
		Name:          m.Name,
		Description:   description,
		Order:         m.Order,
		Step:          m.Step,
		Hidden:        m.Hidden,
		ChallengeType: m.ChallengeType,
		External:      true,
		Version:       m.Version,
	}
}

// Metadata is what a running external plugin reports about itself.
type Metadata struct {
	Name          string
	Version       string
	Step          Step
	Description   string
	Order         int
	ChallengeType string
	Capabilities  []Capability
}
