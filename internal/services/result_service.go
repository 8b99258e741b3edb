package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Persona/internal/models"
	"github.com/soaringjerry/Persona/internal/store"
)

// ResultStore is the slice of the store gateway the services depend on.
type ResultStore interface {
	Save(ctx context.Context, r models.TestResult) store.Outcome[int64]
	Get(ctx context.Context, key int64) store.Outcome[*models.TestResult]
	ListAll(ctx context.Context) store.Outcome[[]models.TestResult]
	Clear(ctx context.Context) store.Outcome[int]
}

// Message keys; the HTTP layer translates them.
const (
	MsgInvalidAnswers = "result.invalid_answers"
	MsgNotFound       = "result.not_found"
	MsgSaveFailed     = "result.save_failed"
	MsgLoadFailed     = "result.load_failed"
	MsgClearFailed    = "result.clear_failed"
	MsgInvalidRecord  = "result.invalid_record"
)

// SubmitResult is returned after a quiz attempt has been stored.
type SubmitResult struct {
	Timestamp int64                  `json:"timestamp"`
	Type      models.PersonalityType `json:"type"`
}

// HistoryEntry is one row of the result history.
type HistoryEntry struct {
	Timestamp   int64                  `json:"timestamp"`
	SubmittedAt time.Time              `json:"submitted_at"`
	Type        models.PersonalityType `json:"type"`
	Answered    int                    `json:"answered"`
}

// ResultService turns answer buffers into stored, classified results.
type ResultService struct {
	engine *ScoringEngine
	store  ResultStore
	log    *zap.Logger
	now    func() time.Time
}

func NewResultService(engine *ScoringEngine, rs ResultStore, log *zap.Logger) *ResultService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResultService{
		engine: engine,
		store:  rs,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Engine exposes the scoring engine the service was built with.
func (s *ResultService) Engine() *ScoringEngine { return s.engine }

// Submit scores a complete answer buffer and stores it under the current time.
func (s *ResultService) Submit(ctx context.Context, answers []models.AnswerChoice) (*SubmitResult, error) {
	letters, err := s.engine.ScoreAnswers(answers)
	if err != nil {
		return nil, wrapInvalid(MsgInvalidAnswers, err)
	}
	rec := models.TestResult{
		SchemaVersion: models.CurrentSchemaVersion,
		Timestamp:     s.now().UnixMilli(),
		Answers:       append([]models.AnswerChoice(nil), answers...),
		TraitLetters:  letters,
	}
	out := s.store.Save(ctx, rec)
	if !out.Success {
		if errors.Is(out.Err, store.ErrInvalidRecord) {
			return nil, wrapInvalid(MsgInvalidRecord, out.Err)
		}
		return nil, NewUnavailableError(MsgSaveFailed, out.Err)
	}
	t := Classify(letters)
	s.log.Info("result saved", zap.Int64("timestamp", out.Data), zap.String("type", string(t)))
	return &SubmitResult{Timestamp: out.Data, Type: t}, nil
}

// Result loads one stored result. Absence and storage faults stay distinct.
func (s *ResultService) Result(ctx context.Context, ts int64) (*models.TestResult, error) {
	out := s.store.Get(ctx, ts)
	if !out.Success {
		if errors.Is(out.Err, store.ErrUnsupportedSchema) {
			return nil, wrapInvalid(MsgInvalidRecord, out.Err)
		}
		return nil, NewUnavailableError(MsgLoadFailed, out.Err)
	}
	if out.Data == nil {
		return nil, NewNotFoundError(MsgNotFound)
	}
	return out.Data, nil
}

// View loads a stored result and builds its report sections.
func (s *ResultService) View(ctx context.Context, ts int64) (*ResultView, error) {
	r, err := s.Result(ctx, ts)
	if err != nil {
		return nil, err
	}
	return s.engine.BuildView(*r)
}

// History lists every stored result, newest first.
func (s *ResultService) History(ctx context.Context) ([]HistoryEntry, error) {
	rs, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryEntry, 0, len(rs))
	for _, r := range rs {
		out = append(out, HistoryEntry{
			Timestamp:   r.Timestamp,
			SubmittedAt: time.UnixMilli(r.Timestamp).UTC(),
			Type:        Classify(r.TraitLetters),
			Answered:    len(r.Answers),
		})
	}
	return out, nil
}

// Results returns every stored result, newest first.
func (s *ResultService) Results(ctx context.Context) ([]models.TestResult, error) {
	return s.all(ctx)
}

// ClearAll removes every stored result.
func (s *ResultService) ClearAll(ctx context.Context) (int, error) {
	out := s.store.Clear(ctx)
	if !out.Success {
		return 0, NewUnavailableError(MsgClearFailed, out.Err)
	}
	return out.Data, nil
}

func (s *ResultService) all(ctx context.Context) ([]models.TestResult, error) {
	out := s.store.ListAll(ctx)
	if !out.Success {
		return nil, NewUnavailableError(MsgLoadFailed, out.Err)
	}
	rs := out.Data
	sort.Slice(rs, func(i, j int) bool { return rs[i].Timestamp > rs[j].Timestamp })
	return rs, nil
}
