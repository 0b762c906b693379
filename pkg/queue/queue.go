package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"github.com/jdziat/simple-serial-queue/pkg/core"
	"github.com/jdziat/simple-serial-queue/pkg/security"
	"github.com/jdziat/simple-serial-queue/pkg/worker"
)

// Queue is the single entry point for one logical queue. Requests go through
// a mailbox and are handled one at a time by the dispatcher goroutine.
type Queue struct {
	store    core.Store
	consumer core.Consumer
	state    *worker.State
	worker   *worker.Worker
	opts     *Options
	logger   *slog.Logger
	lock     *flock.Flock

	mailbox chan *request
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	bg      sync.WaitGroup
	closed  atomic.Bool
	once    sync.Once

	// Event stream
	mu        sync.RWMutex
	eventSubs []chan core.Event
}

type request struct {
	ctx   context.Context
	req   core.Request
	reply chan error
}

// New opens the consumer's store on backend and starts the dispatcher.
//
// A store that already holds items starts Paused: either a previous run
// paused or the process stopped uncleanly, and the host decides whether to
// resume. An empty store starts Running with no worker.
func New(ctx context.Context, backend core.Backend, consumer core.Consumer, opts ...Option) (*Queue, error) {
	if consumer == nil {
		return nil, core.ErrNilConsumer
	}

	options := NewOptions()
	for _, opt := range opts {
		opt.Apply(options)
	}

	q := &Queue{
		consumer: consumer,
		opts:     options,
		done:     make(chan struct{}),
	}

	if options.LockFile != "" {
		q.lock = flock.New(options.LockFile)
		ok, err := q.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("serialq: acquire lock: %w", err)
		}
		if !ok {
			return nil, core.ErrQueueLocked
		}
	}

	store, err := backend.Open(ctx, consumer.StoreIdentifier())
	if err != nil {
		q.unlock()
		return nil, err
	}
	pending, err := store.Count(ctx)
	if err != nil {
		_ = store.Close()
		q.unlock()
		return nil, err
	}

	initial := core.PhaseRunning
	if pending > 0 {
		initial = core.PhasePaused
	}

	q.store = store
	q.logger = options.Logger.With("store", store.Name())
	q.state = worker.NewState(initial)
	q.worker = worker.NewWorker(q.state, store, consumer,
		worker.WithLogger(options.Logger),
		worker.WithEmitter(q.Emit),
		worker.WithErrorHandler(options.OnError),
	)
	q.mailbox = make(chan *request, options.MailboxSize)
	q.ctx, q.cancel = context.WithCancel(context.WithoutCancel(ctx))

	go q.dispatch()
	if options.ResumeSchedule != nil {
		q.bg.Add(1)
		go q.runScheduler()
	}

	q.logger.Info("queue opened", "phase", initial.String(), "pending", pending)
	return q, nil
}

// Submit enqueues payload. It returns once the item is stored.
func (q *Queue) Submit(ctx context.Context, payload any) error {
	return q.Dispatch(ctx, core.DataRequest(payload))
}

// SendCommand sends a control command. Commands are only accepted while the
// queue is paused; otherwise a *core.ProtocolError is returned and nothing
// changes.
func (q *Queue) SendCommand(ctx context.Context, code int) error {
	return q.Dispatch(ctx, core.CommandRequest(code))
}

// Dispatch hands req to the dispatcher and waits for its result.
func (q *Queue) Dispatch(ctx context.Context, req core.Request) error {
	if q.closed.Load() {
		return core.ErrQueueClosed
	}

	r := &request{ctx: ctx, req: req, reply: make(chan error, 1)}
	select {
	case q.mailbox <- r:
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return core.ErrQueueClosed
	}

	select {
	case err := <-r.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		// the dispatcher may have answered just before exiting
		select {
		case err := <-r.reply:
			return err
		default:
			return core.ErrQueueClosed
		}
	}
}

// IsPaused reports whether the queue is paused. It never blocks and is safe
// to call from lifecycle callbacks.
func (q *Queue) IsPaused() bool {
	return q.state.IsPaused()
}

// Phase returns the current phase. It never blocks.
func (q *Queue) Phase() core.Phase {
	return q.state.Phase()
}

// Count returns the number of stored items.
func (q *Queue) Count(ctx context.Context) (int64, error) {
	return q.store.Count(ctx)
}

// Peek returns the earliest stored item, or nil when the store is empty.
func (q *Queue) Peek(ctx context.Context) (*core.WorkItem, error) {
	return q.store.PeekEarliest(ctx)
}

// List returns up to limit stored items, earliest first.
func (q *Queue) List(ctx context.Context, limit int) ([]*core.WorkItem, error) {
	l, ok := q.store.(core.Lister)
	if !ok {
		return nil, core.ErrListUnsupported
	}
	return l.List(ctx, limit)
}

// Store returns the queue's store name.
func (q *Queue) Store() string {
	return q.store.Name()
}

// Close stops the dispatcher and interrupts the active worker, then waits
// for it until ctx ends. Items not yet processed stay in the store, so the
// next New over the same store starts Paused.
func (q *Queue) Close(ctx context.Context) error {
	var err error
	q.once.Do(func() {
		q.closed.Store(true)
		q.cancel()
		<-q.done

		finished := make(chan struct{})
		go func() {
			q.worker.Wait()
			q.bg.Wait()
			close(finished)
		}()
		select {
		case <-finished:
		case <-ctx.Done():
			err = fmt.Errorf("serialq: waiting for worker: %w", ctx.Err())
		}

		if cerr := q.store.Close(); cerr != nil && err == nil {
			err = core.WrapStorage("close", q.store.Name(), cerr)
		}
		q.unlock()
		q.logger.Info("queue closed", "phase", q.Phase().String())
	})
	return err
}

func (q *Queue) unlock() {
	if q.lock == nil {
		return
	}
	if err := q.lock.Unlock(); err != nil {
		q.opts.Logger.Warn("failed to release queue lock", "lock", q.opts.LockFile, "error", err)
	}
}

func (q *Queue) dispatch() {
	defer close(q.done)
	for {
		select {
		case <-q.ctx.Done():
			return
		case r := <-q.mailbox:
			r.reply <- q.handle(r)
		}
	}
}

func (q *Queue) handle(r *request) error {
	if r.req.IsCommand() {
		return q.handleCommand(r.ctx, *r.req.Command)
	}
	return q.handleData(r.ctx, r.req.Payload)
}

func (q *Queue) handleData(ctx context.Context, payload any) error {
	data, err := q.serialize(payload)
	if err != nil {
		return err
	}
	if err := security.ValidatePayload(data); err != nil {
		q.logger.Warn("rejected oversized payload", "size", len(data))
		return err
	}

	return q.state.Do(func(t *worker.Txn) error {
		id, err := q.store.Append(ctx, data)
		if err != nil {
			q.logger.Error("failed to store item", "error", err)
			return err
		}
		q.Emit(&core.ItemEnqueued{Store: q.store.Name(), ItemID: id, Timestamp: time.Now()})
		q.logger.Debug("item enqueued", "item_id", id, "preview", security.SanitizePreview(data, 64))

		switch {
		case t.Phase() == core.PhasePaused:
			if q.consumer.ResumeOnNewItem() {
				q.logger.Info("new item resumes paused queue", "item_id", id)
				q.worker.Launch(q.ctx, t)
			}
		case t.Active() == nil:
			q.worker.Launch(q.ctx, t)
		}
		return nil
	})
}

func (q *Queue) handleCommand(ctx context.Context, code int) error {
	cmd, err := core.ParseCommand(code)
	if err == nil {
		err = q.state.Do(func(t *worker.Txn) error {
			if t.Phase() != core.PhasePaused {
				return &core.ProtocolError{Command: code, Err: core.ErrNotPaused}
			}
			return q.apply(ctx, t, cmd)
		})
	}

	var perr *core.ProtocolError
	if errors.As(err, &perr) {
		q.logger.Warn("command rejected", "command", code, "phase", q.Phase().String(), "error", perr.Err)
		q.Emit(&core.CommandRejected{Store: q.store.Name(), Command: code, Error: err, Timestamp: time.Now()})
	} else if err != nil {
		q.logger.Error("command failed", "command", cmd.String(), "error", err)
	}
	return err
}

// apply runs cmd on a paused queue inside the critical section.
func (q *Queue) apply(ctx context.Context, t *worker.Txn, cmd core.Command) error {
	switch cmd {
	case core.CommandResumeSkipFirst:
		item, err := q.store.PeekEarliest(ctx)
		if err != nil {
			return err
		}
		if err := q.store.RemoveEarliest(ctx); err != nil {
			return err
		}
		if item != nil {
			q.Emit(&core.ItemSkipped{Store: q.store.Name(), ItemID: item.ID, Reason: "command", Timestamp: time.Now()})
			q.logger.Info("skipped earliest item", "item_id", item.ID)
		}
		return q.resume(t, cmd)

	case core.CommandAbort:
		discarded, err := q.store.Count(ctx)
		if err != nil {
			return err
		}
		worker.Notify(q.logger, "OnQueueEnded", func() { q.consumer.OnQueueEnded(false) })
		if err := q.store.Clear(ctx); err != nil {
			return err
		}
		t.Abort()
		q.Emit(&core.QueueEnded{Store: q.store.Name(), Discarded: discarded, Timestamp: time.Now()})
		q.logger.Info("queue aborted", "discarded", discarded)
		return nil

	default:
		return q.resume(t, cmd)
	}
}

func (q *Queue) resume(t *worker.Txn, cmd core.Command) error {
	q.worker.Launch(q.ctx, t)
	q.Emit(&core.QueueResumed{Store: q.store.Name(), Command: cmd, Timestamp: time.Now()})
	q.logger.Info("queue resumed", "command", cmd.String())
	return nil
}

func (q *Queue) serialize(payload any) (data string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("serialq: serialize panicked: %v", r)
		}
	}()
	return q.consumer.Serialize(payload), nil
}
