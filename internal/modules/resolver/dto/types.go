package dto

import "time"

type PlanInput struct {
	Hosts          []string
	TargetName     string
	Unattended     bool
	Advanced       bool
	Test           bool
	Validation     string
	ValidationMode string
	Store          string
	Installation   string
}

// Selection is one resolved pipeline step.
type Selection struct {
	Step        string
	ID          string
	Name        string
	Description string
}

type PlanOutput struct {
	ID          string
	TargetName  string
	Identifiers []string
	RunLevel    string
	Selections  []Selection
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
