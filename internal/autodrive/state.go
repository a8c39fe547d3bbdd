package autodrive

// State is the lifecycle stage of an autodrive activity.
type State int

const (
	StateIdle State = iota
	StatePlanning
	StateFollowing
	StateDegraded
	StateFinished
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlanning:
		return "planning"
	case StateFollowing:
		return "following"
	case StateDegraded:
		return "degraded"
	case StateFinished:
		return "finished"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// Done reports whether the activity has ended.
func (s State) Done() bool {
	return s == StateFinished || s == StateAborted
}

// Failure classifies why an activity was aborted.
type Failure int

const (
	FailureNone Failure = iota
	FailureNoPath
	FailureNoVisibility
	FailureCloseObstacle
	FailureLostControl
	FailureInternal
	FailureStopped
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return ""
	case FailureNoPath:
		return "no_path"
	case FailureNoVisibility:
		return "no_visibility"
	case FailureCloseObstacle:
		return "close_obstacle"
	case FailureLostControl:
		return "lost_control"
	case FailureInternal:
		return "internal"
	case FailureStopped:
		return "stopped"
	}
	return "unknown"
}

// Message returns the text shown to the player for f.
func (f Failure) Message() string {
	switch f {
	case FailureNoPath:
		return "Can't find a path to the destination."
	case FailureNoVisibility:
		return "Can't see a path forward."
	case FailureCloseObstacle:
		return "You're about to crash into something!"
	case FailureLostControl:
		return "You've lost control of the vehicle!"
	}
	return ""
}

// Brakes reports whether aborting for f forces the cruise speed to zero.
func (f Failure) Brakes() bool {
	return f == FailureCloseObstacle || f == FailureLostControl
}

// MessageArrived is shown when the vehicle stops at its destination.
const MessageArrived = "You have arrived at your destination."

// CollisionCheck is the outcome of the pre-move collision check.
type CollisionCheck int

const (
	CheckOK CollisionCheck = iota
	CheckNoVisibility
	CheckCloseObstacle
	CheckSlowDown
)

func (c CollisionCheck) String() string {
	switch c {
	case CheckOK:
		return "ok"
	case CheckNoVisibility:
		return "no_visibility"
	case CheckCloseObstacle:
		return "close_obstacle"
	case CheckSlowDown:
		return "slow_down"
	}
	return "unknown"
}
