package graph

import (
	"log/slog"
	"sync/atomic"
)

type State int32

const (
	NotStarted State = iota
	FactoryResolving
	ArgsResolving
	Deploying
	AwaitingConfirmation
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case FactoryResolving:
		return "factory_resolving"
	case ArgsResolving:
		return "args_resolving"
	case Deploying:
		return "deploying"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) Terminal() bool {
	return s == Ready || s == Failed
}

// tracker holds the state of one deployment. States only move forward.
type tracker struct {
	kind   Kind
	state  atomic.Int32
	logger *slog.Logger
}

func newTracker(kind Kind, log *slog.Logger) *tracker {
	return &tracker{
		kind:   kind,
		logger: log.With("kind", kind),
	}
}

func (t *tracker) State() State {
	return State(t.state.Load())
}

func (t *tracker) advance(next State) bool {
	for {
		current := State(t.state.Load())
		if current.Terminal() || next <= current {
			return false
		}

		if t.state.CompareAndSwap(int32(current), int32(next)) {
			t.logger.
				With("from", current).
				With("to", next).
				Debug("deployment state changed")
			return true
		}
	}
}
