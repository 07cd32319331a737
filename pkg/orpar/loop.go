package orpar

import "time"

// Stage is the ORPAR loop's internal state, including the unrecorded Act
// stage (spec.md §4.4).
type Stage string

const (
	StageObservation Stage = "observation"
	StageReasoning   Stage = "reasoning"
	StagePlan        Stage = "plan"
	StageAct         Stage = "act"
	StageReflection  Stage = "reflection"
)

// nextStage is the linear transition table; skipping a stage is never
// permitted (spec.md §4.4).
var nextStage = map[Stage]Stage{
	StageObservation: StageReasoning,
	StageReasoning:   StagePlan,
	StagePlan:        StageAct,
	StageAct:         StageReflection,
	StageReflection:  StageObservation,
}

// recordedPhase maps a Stage to the Phase persisted as a PhaseEntry; Act
// produces no phase entry (it is realized as tool calls/task updates).
func recordedPhase(s Stage) (Phase, bool) {
	switch s {
	case StageObservation:
		return PhaseObservation, true
	case StageReasoning:
		return PhaseReasoning, true
	case StagePlan:
		return PhasePlan, true
	case StageReflection:
		return PhaseReflection, true
	default:
		return "", false
	}
}

// loop is one (agentID, channelID) ORPAR run.
type loop struct {
	agentID              string
	channelID             string
	stage                Stage
	completedReflections int
	cancelled            bool
	stopped              bool
	stopReason           string
	startedAt            time.Time
}

// loopKey is the stable identity of an (agentID, channelID) loop.
func loopKey(agentID, channelID string) string {
	return agentID + "::" + channelID
}

// CycleCount is the number of completed reflections, +1 if the loop is
// still active (spec.md §4.4).
func (l *loop) CycleCount() int {
	if l.stopped {
		return l.completedReflections
	}
	return l.completedReflections + 1
}

// PhaseResult is the caller-supplied content produced for the current
// stage. NextObservationSeed is read only when the current stage is
// StageReflection, i.e. on the Advance call that moves the loop out of
// reflection (the same call whose success flag is recorded as the
// reflection's outcome): it becomes the content of the next cycle's
// observation phase entry (spec.md §4.4: "a reflection produces the next cycle's
// observation seed").
type PhaseResult struct {
	Content             string
	NextObservationSeed string
}
