package settle

// State describes the lifecycle of the one-per-process resolution pass.
type State int

const (
	// StateUninitialized means no pass has settled; a call to Initialize
	// starts a fresh one.
	StateUninitialized State = iota
	// StatePending means a pass is in flight; concurrent callers join it.
	StatePending
	// StateSettled means a pass completed successfully. Terminal until
	// process restart (or Reset in tests).
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePending:
		return "pending"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// pass is the shared completion handle for one in-flight resolution pass.
// err is assigned before done is closed, so waiters may read it after the
// channel unblocks without further synchronisation.
type pass struct {
	done chan struct{}
	err  error
}

func newPass() *pass {
	return &pass{done: make(chan struct{})}
}
