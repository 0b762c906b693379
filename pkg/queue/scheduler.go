package queue

import (
	"errors"
	"time"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

// schedulerTick is how often the resume scheduler looks at the phase.
var schedulerTick = 100 * time.Millisecond

// runScheduler sends Resume through the dispatcher once the resume schedule
// is due for the current pause.
func (q *Queue) runScheduler() {
	defer q.bg.Done()

	ticker := time.NewTicker(schedulerTick)
	defer ticker.Stop()

	var due time.Time
	for {
		select {
		case <-q.ctx.Done():
			return
		case now := <-ticker.C:
			if !q.IsPaused() {
				due = time.Time{}
				continue
			}
			if due.IsZero() {
				due = q.opts.ResumeSchedule.Next(now)
				q.logger.Debug("resume scheduled", "at", due)
				continue
			}
			if now.Before(due) {
				continue
			}

			due = time.Time{}
			err := q.SendCommand(q.ctx, int(core.CommandResume))
			switch {
			case err == nil:
				q.logger.Info("scheduled resume")
			case errors.Is(err, core.ErrNotPaused), errors.Is(err, core.ErrQueueClosed), q.ctx.Err() != nil:
			default:
				q.logger.Error("scheduled resume failed", "error", err)
			}
		}
	}
}
