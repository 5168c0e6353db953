package handler

// State is a stage of the per-request pipeline. Every request ends in
// StateResponded, whether it was predicted, rejected, or failed.
type State int

const (
	StateReceived State = iota
	StateCoercing
	StateValidating
	StateRejected
	StatePredicting
	StateRendered
	StateFailed
	StateResponded
)

var stateNames = [...]string{
	StateReceived:   "received",
	StateCoercing:   "coercing",
	StateValidating: "validating",
	StateRejected:   "rejected",
	StatePredicting: "predicting",
	StateRendered:   "rendered",
	StateFailed:     "failed",
	StateResponded:  "responded",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
