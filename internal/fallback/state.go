package fallback

import (
	"fmt"

	"subgen/internal/backend"
)

// State is a node of the fallback ladder.
type State int

const (
	StateTryPrimary State = iota
	StateTrySaferPrecision
	StateTryCPU
	StateDone
)

func (s State) String() string {
	switch s {
	case StateTryPrimary:
		return "try_primary"
	case StateTrySaferPrecision:
		return "try_safer_precision"
	case StateTryCPU:
		return "try_cpu"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Backend returns the backend an attempt in s runs on.
func (s State) Backend() backend.Backend {
	switch s {
	case StateTryPrimary:
		return backend.GPUPrimary
	case StateTrySaferPrecision:
		return backend.GPUSafePrecision
	default:
		return backend.CPU
	}
}

// InitialState is TryPrimary when a GPU is available, otherwise TryCPU.
func InitialState(gpu bool) State {
	if gpu {
		return StateTryPrimary
	}
	return StateTryCPU
}

// AttemptOutcome classifies a single attempt.
type AttemptOutcome int

const (
	AttemptSuccess AttemptOutcome = iota
	AttemptEmpty
	AttemptRuntimeError
)

func (o AttemptOutcome) String() string {
	switch o {
	case AttemptSuccess:
		return "success"
	case AttemptEmpty:
		return "empty_result"
	case AttemptRuntimeError:
		return "runtime_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Next returns the state that follows an attempt in s with the given outcome.
func Next(s State, outcome AttemptOutcome) State {
	switch outcome {
	case AttemptSuccess:
		return StateDone
	case AttemptEmpty:
		switch s {
		case StateTryPrimary:
			return StateTrySaferPrecision
		case StateTrySaferPrecision:
			return StateTryCPU
		default:
			return StateDone
		}
	default:
		if s.Backend().IsGPU() {
			return StateTryCPU
		}
		return StateDone
	}
}

// IsDegenerate reports whether zero cues on audio of the given duration should
// trigger a fallback rather than count as silence.
func IsDegenerate(cues int, durationSeconds, shortClipSeconds float64) bool {
	return cues == 0 && durationSeconds > shortClipSeconds
}
