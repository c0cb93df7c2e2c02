package domain

// Source represents the social platform a launch request was posted on.
type Source string

const (
	SourceMoltx    Source = "moltx"
	SourceMoltbook Source = "moltbook"
	Source4claw    Source = "4claw"
)

// String returns the string representation of Source.
func (s Source) String() string {
	return string(s)
}

// IsValid checks if the source is a valid value.
func (s Source) IsValid() bool {
	return s == SourceMoltx || s == SourceMoltbook || s == Source4claw
}

// Status is the deployment state of a TokenLaunch.
type Status string

const (
	StatusPending  Status = "pending"
	StatusDeployed Status = "deployed"
	StatusFailed   Status = "failed"
)

// String returns the string representation of Status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is a valid value.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusDeployed || s == StatusFailed
}

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusDeployed || s == StatusFailed
}
