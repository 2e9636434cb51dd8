package registry

// ExitCondition tags a shutdown action with the kind of process exit that
// should trigger it.
type ExitCondition int

const (
	// Always runs the action on every exit, clean or not.
	Always ExitCondition = iota
	// OnSuccess runs the action only when the process shuts down cleanly.
	OnSuccess
	// OnFailure runs the action only when shutdown was triggered by an error.
	OnFailure
)

// String returns the condition name for logs.
func (c ExitCondition) String() string {
	switch c {
	case Always:
		return "always"
	case OnSuccess:
		return "on_success"
	case OnFailure:
		return "on_failure"
	default:
		return "unknown"
	}
}

// matches reports whether an action tagged with c must run for the given
// exit condition. Always matches everything, in both directions: draining
// with Always runs the full stack.
func (c ExitCondition) matches(exit ExitCondition) bool {
	return c == Always || exit == Always || c == exit
}
