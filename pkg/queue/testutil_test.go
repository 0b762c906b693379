package queue

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jdziat/simple-serial-queue/pkg/core"
	"github.com/jdziat/simple-serial-queue/pkg/storage"
	"github.com/jdziat/simple-serial-queue/pkg/worker"
)

const waitFor = 5 * time.Second
const tick = 5 * time.Millisecond

// recorder is a Consumer over string payloads that logs every callback.
// Payloads starting with "bad:" fail to deserialize.
type recorder struct {
	mu      sync.Mutex
	log     []string
	process func(ctx context.Context, p string) core.Directive
	resume  bool
	// onEnded runs inside OnQueueEnded
	onEnded func(allProcessed bool)
	name    string
}

func newRecorder() *recorder {
	return &recorder{name: "items"}
}

func (r *recorder) record(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, s)
}

func (r *recorder) Serialize(payload any) string {
	if payload == nil {
		return ""
	}
	return fmt.Sprint(payload)
}

func (r *recorder) Deserialize(data string) (any, bool) {
	if strings.HasPrefix(data, "bad:") {
		return nil, false
	}
	return data, true
}

func (r *recorder) Process(ctx context.Context, payload any) core.Directive {
	p := payload.(string)
	r.record("process:" + p)
	r.mu.Lock()
	fn := r.process
	r.mu.Unlock()
	if fn == nil {
		return core.Continue
	}
	return fn(ctx, p)
}

func (r *recorder) OnQueueStarting() { r.record("starting") }

func (r *recorder) OnQueuePausing(payload any) { r.record(fmt.Sprintf("pausing:%v", payload)) }

func (r *recorder) OnQueueEnded(allProcessed bool) {
	r.record(fmt.Sprintf("ended:%v", allProcessed))
	r.mu.Lock()
	fn := r.onEnded
	r.mu.Unlock()
	if fn != nil {
		fn(allProcessed)
	}
}

func (r *recorder) ResumeOnNewItem() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resume
}

func (r *recorder) StoreIdentifier() string { return r.name }

func (r *recorder) setProcess(fn func(ctx context.Context, p string) core.Directive) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.process = fn
}

func (r *recorder) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

// processed returns the payloads passed to Process, in order.
func (r *recorder) processed() []string {
	var out []string
	for _, e := range r.entries() {
		if p, ok := strings.CutPrefix(e, "process:"); ok {
			out = append(out, p)
		}
	}
	return out
}

func (r *recorder) countOf(entry string) int {
	n := 0
	for _, e := range r.entries() {
		if e == entry {
			n++
		}
	}
	return n
}

// backendCase builds a fresh backend. A test that reuses the backend it got
// can close a queue and reopen another over the same store.
type backendCase struct {
	name string
	open func(t *testing.T) core.Backend
}

func backendCases() []backendCase {
	return []backendCase{
		{"memory", func(t *testing.T) core.Backend {
			return storage.NewMemoryStorage()
		}},
		{"sqlite", func(t *testing.T) core.Backend {
			s, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "queue.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
		{"gorm", func(t *testing.T) core.Backend {
			db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "queue.db")), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Silent),
			})
			require.NoError(t, err)
			s, err := storage.NewGormStorageWithPool(db)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newQueue(t *testing.T, b core.Backend, c core.Consumer, opts ...Option) *Queue {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	q, err := New(context.Background(), b, c, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitFor)
		defer cancel()
		_ = q.Close(ctx)
	})
	return q
}

// seed writes payloads straight into the backend's store for name.
func seed(t *testing.T, b core.Backend, name string, payloads ...string) {
	t.Helper()
	st, err := b.Open(context.Background(), name)
	require.NoError(t, err)
	for _, p := range payloads {
		_, err := st.Append(context.Background(), p)
		require.NoError(t, err)
	}
}

func submitAll(t *testing.T, q *Queue, payloads ...string) {
	t.Helper()
	for _, p := range payloads {
		require.NoError(t, q.Submit(context.Background(), p))
	}
}

func count(t *testing.T, q *Queue) int64 {
	t.Helper()
	n, err := q.Count(context.Background())
	require.NoError(t, err)
	return n
}

func waitPhase(t *testing.T, q *Queue, want core.Phase) {
	t.Helper()
	require.Eventually(t, func() bool { return q.Phase() == want }, waitFor, tick,
		"phase never became %s (is %s)", want, q.Phase())
}

// waitIdle waits until the queue has no active worker in phase want.
func waitIdle(t *testing.T, q *Queue, want core.Phase) {
	t.Helper()
	require.Eventually(t, func() bool {
		idle := false
		_ = q.state.Do(func(tx *worker.Txn) error {
			idle = tx.Phase() == want && tx.Active() == nil
			return nil
		})
		return idle
	}, waitFor, tick, "queue never went idle in %s", want)
}
