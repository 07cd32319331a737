package mxf

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/dag"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/task"
)

// Scheduler drives the "schedule tick" trigger named in spec.md §4's data
// flow diagram: on a cron cadence, it scans every active channel for ready
// tasks and admits an ORPAR loop for each one's assignee. Grounded on the
// teradata-labs-loom example's pkg/scheduler.Scheduler (a robfig/cron
// engine wrapping named jobs, started/stopped as a unit), trimmed from
// that example's workflow-file/hot-reload machinery down to the one
// recurring job this core needs.
type Scheduler struct {
	rt       *Runtime
	cron     *cron.Cron
	entryID  cron.EntryID
	tickSpec string
}

// NewScheduler builds a Scheduler that ticks rt.ScheduleTick on tickSpec
// (standard 5-field cron syntax).
func NewScheduler(rt *Runtime, tickSpec string) *Scheduler {
	return &Scheduler{rt: rt, cron: cron.New(), tickSpec: tickSpec}
}

// Start registers the tick job and starts the cron engine's own goroutine.
func (s *Scheduler) Start() error {
	entryID, err := s.cron.AddFunc(s.tickSpec, func() {
		if err := s.rt.ScheduleTick(); err != nil && s.rt.Logger != nil {
			s.rt.Logger.Error("mxf.ScheduleTick failed", "error", err)
		}
	})
	if err != nil {
		return mxerrors.Wrap(mxerrors.InvalidRequest, "mxf.Scheduler.Start", "invalid cron schedule: "+s.tickSpec, err)
	}
	s.entryID = entryID
	s.cron.Start()
	return nil
}

// Stop halts the cron engine, waiting for any in-flight tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// ScheduleTick scans every active channel for ready tasks and, for each one
// assigned to an agent with no currently active loop, admits a new ORPAR
// loop seeded with the task's title (spec.md §4's data-flow: "DAG
// engine recomputes readiness -> ORPAR controller selects ready work for
// an agent, enters Observe phase").
func (rt *Runtime) ScheduleTick() error {
	channels, err := rt.Channels.FindMany(filter.Filter{Where: map[string]any{"active": true}}, filter.Pagination{})
	if err != nil {
		return err
	}

	for _, ch := range channels.Items {
		readyIDs, err := rt.DAG.GetReadyTasks(ch.ID, dag.ReadyOptions{})
		if err != nil {
			return fmt.Errorf("mxf.ScheduleTick: channel %s: %w", ch.ID, err)
		}

		for _, taskID := range readyIDs {
			t, err := rt.tasks().FindByID(taskID)
			if err != nil {
				return err
			}
			agentID := t.Assignment.AssignedAgentID
			if agentID == "" {
				continue
			}

			if status, err := rt.ORPAR.Status(agentID, ch.ID); err == nil && status.Active {
				continue // loop already active for this (agent, channel) pair
			}

			seed := "ready task: " + t.Title
			if _, err := rt.ORPAR.StartLoop(agentID, ch.ID, seed); err != nil && mxerrors.KindOf(err) != mxerrors.InvalidRequest {
				return err
			}
		}
	}

	return nil
}

// tasks exposes the underlying task.Repository for read lookups the
// Service itself does not surface (findByID without the lifecycle
// guardrails Create/UpdateStatus enforce).
func (rt *Runtime) tasks() *task.Repository {
	return rt.taskRepo
}
