package utility

import (
	"log/slog"
	"time"
)

// Patch applies a mutation to the Record embedded in whatever record type
// id identifies. Concrete repositories (kg.EntityRepository,
// memstore.AgentMemoryRepository, ...) supply one of these, closing over
// their own repository.Update call, so this package stays storage-agnostic
// exactly as spec.md §4.6 requires ("the repository neither implements nor
// enforces the rule; it just stores the result").
type Patch func(id string, mutate func(*Record)) error

// IncrementRetrievalCount bumps RetrievalCount and stamps LastAccessedAt on
// every id in the batch.
func IncrementRetrievalCount(patch Patch, ids []string, now time.Time) error {
	for _, id := range ids {
		if err := patch(id, func(r *Record) { *r = r.IncrementRetrieval(now) }); err != nil {
			return err
		}
	}
	return nil
}

// RecordOutcome bumps SuccessCount or FailureCount on every id in the
// batch.
func RecordOutcome(patch Patch, ids []string, success bool) error {
	for _, id := range ids {
		if err := patch(id, func(r *Record) { *r = r.RecordOutcome(success) }); err != nil {
			return err
		}
	}
	return nil
}

// UpdateQValue clamps newQ to [0,1], stamps LastQValueUpdateAt, and logs
// reason (free-form, per spec.md §4.6) at debug level.
func UpdateQValue(patch Patch, logger *slog.Logger, id string, newQ float64, reason string, now time.Time) error {
	if logger != nil {
		logger.Debug("utility.UpdateQValue", "id", id, "newQValue", Clamp(newQ), "reason", reason)
	}
	return patch(id, func(r *Record) { *r = r.WithQValue(newQ, now) })
}

// BatchUpdateQValues applies a set of id->newQValue updates with one Patch
// call per id, in map order. It is not a single atomic write: it stops at
// the first error, and ids already patched keep their new values.
func BatchUpdateQValues(patch Patch, logger *slog.Logger, updates map[string]float64, now time.Time) error {
	for id, q := range updates {
		if err := UpdateQValue(patch, logger, id, q, "batch", now); err != nil {
			return err
		}
	}
	return nil
}
