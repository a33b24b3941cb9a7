package dto

type PluginInfo struct {
	ID            string
	Name          string
	Step          string
	Description   string
	Order         int
	ChallengeType string
	Hidden        bool
	External      bool
	Disabled      bool
	Reason        string
}

type DoctorResult struct {
	Name            string
	Step            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Reason          string
	Error           string
}
