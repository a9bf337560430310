package export

// State is a step of the export state machine.
type State string

// Batch states. Merging through CleaningUp repeat once per candidate.
const (
	StateIdle             State = "Idle"
	StateDiscovering      State = "Discovering"
	StateMerging          State = "Merging"
	StateFixingUp         State = "FixingUp"
	StatePairingCollision State = "PairingCollision"
	StateWriting          State = "Writing"
	StateCleaningUp       State = "CleaningUp"
	StateDone             State = "Done"
)

// StateFunc observes state transitions. item is empty outside the
// per-candidate states.
type StateFunc func(state State, item string)
