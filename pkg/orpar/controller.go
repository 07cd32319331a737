package orpar

import (
	"sync"
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/utility"
)

// Status is the externally observable state of one (agentID, channelID)
// loop (spec.md §4.4's status() contract).
type Status struct {
	Active      bool
	Stage       Stage
	CycleCount  int
	CancelledBy string
}

// Controller runs every active ORPAR loop under a single mutex, enforcing
// one loop per (agentID, channelID) and a process-wide admission ceiling
// (spec.md §4.4). Grounded on the teacher's pkg/a2a/task manager pattern of
// a map of live runs guarded by one mutex, generalized from one task per
// key to one cognitive loop per key.
type Controller struct {
	mu          sync.Mutex
	loops       map[string]*loop
	ceiling     int
	alpha       float64
	phases      *PhaseEntryRepository
	utilityLog  utility.Patch
}

// NewController builds a Controller admitting at most ceiling concurrent
// loops, using alpha as the Q-value learning rate (spec.md §4.6), recording
// phase entries in phases, and applying reflection Q-value updates via
// patch.
func NewController(ceiling int, alpha float64, phases *PhaseEntryRepository, patch utility.Patch) *Controller {
	return &Controller{
		loops:      make(map[string]*loop),
		ceiling:    ceiling,
		alpha:      alpha,
		phases:     phases,
		utilityLog: patch,
	}
}

func (c *Controller) activeLoops() int {
	n := 0
	for _, l := range c.loops {
		if !l.stopped {
			n++
		}
	}
	return n
}

// StartLoop admits a new loop for (agentID, channelID). Rejected with
// InvalidRequest if a loop for the same key is already active, or if the
// admission ceiling is already reached (spec.md §4.4, §8 scenario 5).
func (c *Controller) StartLoop(agentID, channelID, observationSeed string) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := loopKey(agentID, channelID)
	if existing, ok := c.loops[key]; ok && !existing.stopped {
		return Status{}, mxerrors.New(mxerrors.InvalidRequest, "orpar.StartLoop",
			"a loop is already active for agent "+agentID+" in channel "+channelID)
	}
	if c.activeLoops() >= c.ceiling {
		return Status{}, mxerrors.New(mxerrors.InvalidRequest, "orpar.StartLoop",
			"loop admission ceiling reached")
	}

	l := &loop{
		agentID:   agentID,
		channelID: channelID,
		stage:     StageObservation,
		startedAt: time.Now(),
	}
	c.loops[key] = l

	if _, err := c.recordPhase(l, observationSeed); err != nil {
		delete(c.loops, key)
		return Status{}, err
	}

	return c.statusLocked(l), nil
}

// Advance runs one stage transition for (agentID, channelID). result.Content
// becomes the new stage's PhaseEntry content for recorded stages; Act
// produces no PhaseEntry (spec.md §4.4). A completed reflection folds its
// NextObservationSeed into the next cycle's observation and feeds the
// reflection outcome into the Q-value update rule via the Controller's
// utility.Patch.
func (c *Controller) Advance(agentID, channelID string, result PhaseResult, success bool) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, err := c.lookupActive(agentID, channelID)
	if err != nil {
		return Status{}, err
	}
	if l.cancelled {
		return Status{}, mxerrors.New(mxerrors.InvalidRequest, "orpar.Advance",
			"loop for agent "+agentID+" in channel "+channelID+" was cancelled")
	}

	from := l.stage
	l.stage = nextStage[from]

	if from == StageReflection {
		l.completedReflections++
		if c.utilityLog != nil {
			if err := utility.RecordOutcome(c.utilityLog, []string{agentID}, success); err != nil {
				return Status{}, err
			}
			now := time.Now()
			if err := c.utilityLog(agentID, func(r *utility.Record) {
				*r = r.WithQValue(utility.NextQValue(r.QValue, c.alpha, success), now)
			}); err != nil {
				return Status{}, err
			}
		}
	}

	content := result.Content
	if l.stage == StageObservation && from == StageReflection {
		content = result.NextObservationSeed
	}
	if _, err := c.recordPhase(l, content); err != nil {
		return Status{}, err
	}

	return c.statusLocked(l), nil
}

// recordPhase appends a PhaseEntry for l's current stage if that stage is
// recorded (Act is not).
func (c *Controller) recordPhase(l *loop, content string) (PhaseEntry, error) {
	phase, ok := recordedPhase(l.stage)
	if !ok || c.phases == nil {
		return PhaseEntry{}, nil
	}
	entry := NewPhaseEntry(l.agentID, l.channelID, phase, content)
	created, err := c.phases.Create(entry)
	if err != nil {
		return PhaseEntry{}, mxerrors.Wrap(mxerrors.StorageFailure, "orpar.recordPhase", "failed to persist phase entry", err)
	}
	return created, nil
}

// StopLoop cancels (agentID, channelID)'s loop cooperatively: in-flight
// phase output is discarded, and the loop's slot is freed, decrementing
// ActiveLoops by exactly one (spec.md §4.4).
func (c *Controller) StopLoop(agentID, channelID, reason string) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, err := c.lookupActive(agentID, channelID)
	if err != nil {
		return Status{}, err
	}
	l.cancelled = true
	l.stopped = true
	l.stopReason = reason
	return c.statusLocked(l), nil
}

// Status returns the current status of (agentID, channelID)'s loop.
func (c *Controller) Status(agentID, channelID string) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := loopKey(agentID, channelID)
	l, ok := c.loops[key]
	if !ok {
		return Status{}, mxerrors.New(mxerrors.NotFound, "orpar.Status",
			"no loop recorded for agent "+agentID+" in channel "+channelID)
	}
	return c.statusLocked(l), nil
}

// ActiveLoops reports the number of loops currently admitted and not yet
// stopped.
func (c *Controller) ActiveLoops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLoops()
}

func (c *Controller) lookupActive(agentID, channelID string) (*loop, error) {
	key := loopKey(agentID, channelID)
	l, ok := c.loops[key]
	if !ok || l.stopped {
		return nil, mxerrors.New(mxerrors.NotFound, "orpar.lookupActive",
			"no active loop for agent "+agentID+" in channel "+channelID)
	}
	return l, nil
}

func (c *Controller) statusLocked(l *loop) Status {
	return Status{
		Active:      !l.stopped,
		Stage:       l.stage,
		CycleCount:  l.CycleCount(),
		CancelledBy: l.stopReason,
	}
}
