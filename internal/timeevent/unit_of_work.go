// internal/timeevent/unit_of_work.go
// Two-phase writes across the MySQL/MongoDB split (spec.md §5 "Multi-
// document writes"): MySQL-only commands use repositories.Container's
// *sql.Tx directly (see Processor.propagate), but commands that also touch
// the Mongo-backed TimeEvent collection can't share one transaction across
// both stores, so they make their Mongo writes first and register
// compensating actions here; the SQL side is written last, and the
// compensations run only if it (or any step before Done) fails.

package timeevent

import (
	"context"
	"log"
)

// compensation undoes one already-applied write.
type compensation func(ctx context.Context) error

// unitOfWork accumulates compensations for a multi-document command and
// runs them in reverse order if the command fails before calling Done.
type unitOfWork struct {
	logger        *log.Logger
	compensations []compensation
	done          bool
}

// newUnitOfWork starts a fresh rollback journal.
func newUnitOfWork(logger *log.Logger) *unitOfWork {
	return &unitOfWork{logger: logger}
}

// Stage records a write that has already happened and the action that
// undoes it, in case a later step in the same command fails.
func (u *unitOfWork) Stage(undo compensation) {
	u.compensations = append(u.compensations, undo)
}

// Done marks the command successful; Rollback becomes a no-op after this.
func (u *unitOfWork) Done() {
	u.done = true
}

// Rollback runs every staged compensation in reverse order. Safe to call
// unconditionally via defer; it is a no-op once Done has been called.
func (u *unitOfWork) Rollback(ctx context.Context) {
	if u.done {
		return
	}
	for i := len(u.compensations) - 1; i >= 0; i-- {
		if err := u.compensations[i](ctx); err != nil {
			u.logger.Printf("rollback compensation failed: %v", err)
		}
	}
}
