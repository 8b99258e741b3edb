package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/soaringjerry/Persona/internal/models"
)

// Backend is a single logical table of test results keyed by timestamp.
// Implementations return raw errors; the Gateway turns them into outcomes.
type Backend interface {
	Put(ctx context.Context, r models.TestResult) error
	// Get returns found=false, err=nil for a key that was never stored.
	Get(ctx context.Context, key int64) (r models.TestResult, found bool, err error)
	List(ctx context.Context) ([]models.TestResult, error)
	Clear(ctx context.Context) (int, error)
	Close() error
}

var (
	// ErrStorageFault matches every *Fault.
	ErrStorageFault = errors.New("storage fault")
	// ErrInvalidRecord is returned for records that fail validation before a write.
	ErrInvalidRecord = errors.New("invalid test result")
	// ErrUnsupportedSchema is returned for records written by a newer schema.
	ErrUnsupportedSchema = errors.New("unsupported schema version")
)

// Fault wraps an underlying storage failure with the operation that hit it.
type Fault struct {
	Op    string
	Cause error
}

func (f *Fault) Error() string { return fmt.Sprintf("%s: %s: %v", ErrStorageFault, f.Op, f.Cause) }

func (f *Fault) Unwrap() error { return f.Cause }

func (f *Fault) Is(target error) bool { return target == ErrStorageFault }

// Outcome is the tagged result of a gateway operation. Success=false always
// carries Err; Success=true never does.
type Outcome[T any] struct {
	Success bool
	Data    T
	Err     error
}

func ok[T any](v T) Outcome[T] { return Outcome[T]{Success: true, Data: v} }

func failed[T any](err error) Outcome[T] { return Outcome[T]{Err: err} }

// Gateway is the persistence contract used by the rest of the service.
// None of its methods panic or return raw errors.
type Gateway struct {
	backend Backend
	log     *zap.Logger
}

func NewGateway(backend Backend, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{backend: backend, log: log}
}

// Close releases the backend.
func (g *Gateway) Close() error {
	if g.backend == nil {
		return nil
	}
	return g.backend.Close()
}

// Save writes r keyed by its timestamp. An existing record with the same key is replaced.
func (g *Gateway) Save(ctx context.Context, r models.TestResult) (out Outcome[int64]) {
	if err := Validate(r); err != nil {
		return failed[int64](err)
	}
	r.SchemaVersion = models.CurrentSchemaVersion
	defer g.recoverInto("save", &out)
	if err := g.backend.Put(ctx, r); err != nil {
		return g.fault("save", err, zap.Int64("timestamp", r.Timestamp))
	}
	return ok(r.Timestamp)
}

// Get fetches one record. A missing key is a success with nil Data.
func (g *Gateway) Get(ctx context.Context, key int64) (out Outcome[*models.TestResult]) {
	defer g.recoverInto("get", &out)
	r, found, err := g.backend.Get(ctx, key)
	if err != nil {
		return faultOutcome[*models.TestResult](g, "get", err, zap.Int64("timestamp", key))
	}
	if !found {
		return ok[*models.TestResult](nil)
	}
	if err := upgrade(&r); err != nil {
		return failed[*models.TestResult](err)
	}
	return ok(&r)
}

// ListAll returns every stored record. Callers must sort if they need an order.
func (g *Gateway) ListAll(ctx context.Context) (out Outcome[[]models.TestResult]) {
	defer g.recoverInto("list", &out)
	rs, err := g.backend.List(ctx)
	if err != nil {
		return faultOutcome[[]models.TestResult](g, "list", err)
	}
	result := make([]models.TestResult, 0, len(rs))
	for i := range rs {
		if err := upgrade(&rs[i]); err != nil {
			g.log.Warn("skipping unreadable record", zap.Int64("timestamp", rs[i].Timestamp), zap.Error(err))
			continue
		}
		result = append(result, rs[i])
	}
	return ok(result)
}

// Clear removes every record and reports how many were removed.
func (g *Gateway) Clear(ctx context.Context) (out Outcome[int]) {
	defer g.recoverInto("clear", &out)
	n, err := g.backend.Clear(ctx)
	if err != nil {
		return faultOutcome[int](g, "clear", err)
	}
	g.log.Info("cleared test results", zap.Int("removed", n))
	return ok(n)
}

// SaveAsync runs Save in its own goroutine. The channel is buffered so the
// worker finishes even if nobody reads the outcome.
func (g *Gateway) SaveAsync(ctx context.Context, r models.TestResult) <-chan Outcome[int64] {
	return async(func() Outcome[int64] { return g.Save(ctx, r) })
}

func (g *Gateway) GetAsync(ctx context.Context, key int64) <-chan Outcome[*models.TestResult] {
	return async(func() Outcome[*models.TestResult] { return g.Get(ctx, key) })
}

func (g *Gateway) ListAllAsync(ctx context.Context) <-chan Outcome[[]models.TestResult] {
	return async(func() Outcome[[]models.TestResult] { return g.ListAll(ctx) })
}

func async[T any](fn func() Outcome[T]) <-chan Outcome[T] {
	ch := make(chan Outcome[T], 1)
	go func() {
		ch <- fn()
		close(ch)
	}()
	return ch
}

func (g *Gateway) fault(op string, err error, fields ...zap.Field) Outcome[int64] {
	return faultOutcome[int64](g, op, err, fields...)
}

func faultOutcome[T any](g *Gateway, op string, err error, fields ...zap.Field) Outcome[T] {
	g.log.Error("result store "+op+" failed", append(fields, zap.Error(err))...)
	return failed[T](&Fault{Op: op, Cause: err})
}

func (g *Gateway) recoverInto(op string, out any) {
	rec := recover()
	if rec == nil {
		return
	}
	err := fmt.Errorf("panic: %v", rec)
	g.log.Error("result store "+op+" panicked", zap.Any("panic", rec))
	f := &Fault{Op: op, Cause: err}
	switch o := out.(type) {
	case *Outcome[int64]:
		*o = failed[int64](f)
	case *Outcome[int]:
		*o = failed[int](f)
	case *Outcome[*models.TestResult]:
		*o = failed[*models.TestResult](f)
	case *Outcome[[]models.TestResult]:
		*o = failed[[]models.TestResult](f)
	}
}

// Validate checks a record before it is written.
func Validate(r models.TestResult) error {
	if r.Timestamp <= 0 {
		return fmt.Errorf("%w: timestamp must be positive", ErrInvalidRecord)
	}
	if len(r.Answers) != len(r.TraitLetters) {
		return fmt.Errorf("%w: %d answers but %d trait letters", ErrInvalidRecord, len(r.Answers), len(r.TraitLetters))
	}
	for i, a := range r.Answers {
		if !a.Valid() {
			return fmt.Errorf("%w: answer %d is %q", ErrInvalidRecord, i+1, a)
		}
	}
	for i, l := range r.TraitLetters {
		if !l.Valid() {
			return fmt.Errorf("%w: trait letter %d is %q", ErrInvalidRecord, i+1, l)
		}
	}
	return nil
}

// upgrade brings a decoded record to the current schema. Version 0 records
// predate the version field and share the version 1 layout.
func upgrade(r *models.TestResult) error {
	switch {
	case r.SchemaVersion == 0:
		r.SchemaVersion = models.CurrentSchemaVersion
	case r.SchemaVersion > models.CurrentSchemaVersion:
		return fmt.Errorf("%w: record %d has version %d", ErrUnsupportedSchema, r.Timestamp, r.SchemaVersion)
	}
	return nil
}
