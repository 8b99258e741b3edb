package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Persona/internal/models"
)

// ShareTokens issues and checks share tokens.
type ShareTokens interface {
	SignShareToken(ts int64, t models.PersonalityType, ttl time.Duration) (string, time.Time, error)
	ShareTimestamp(token string) (int64, error)
}

// ShareService hands out read-only links to a single stored result.
type ShareService struct {
	results *ResultService
	tokens  ShareTokens
	baseURL string
	ttl     time.Duration
	log     *zap.Logger
}

func NewShareService(results *ResultService, tokens ShareTokens, baseURL string, ttl time.Duration, log *zap.Logger) *ShareService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ShareService{
		results: results,
		tokens:  tokens,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		log:     log,
	}
}

// Create issues a share link for the result keyed by ts.
func (s *ShareService) Create(ctx context.Context, ts int64) (*ShareSection, error) {
	r, err := s.results.Result(ctx, ts)
	if err != nil {
		return nil, err
	}
	return s.link(r.Timestamp, Classify(r.TraitLetters))
}

// Attach fills the share section of an already built view.
func (s *ShareService) Attach(v *ResultView) error {
	link, err := s.link(v.Timestamp, v.Type)
	if err != nil {
		return err
	}
	v.Share = link
	return nil
}

func (s *ShareService) link(ts int64, t models.PersonalityType) (*ShareSection, error) {
	tok, exp, err := s.tokens.SignShareToken(ts, t, s.ttl)
	if err != nil {
		return nil, NewUnavailableError("internal", err)
	}
	s.log.Info("share link issued", zap.Int64("timestamp", ts), zap.Time("expires_at", exp))
	return &ShareSection{Token: tok, URL: s.baseURL + "/shared/" + tok, ExpiresAt: exp}, nil
}

// Resolve checks a token and returns the view of the result it points at.
func (s *ShareService) Resolve(ctx context.Context, token string) (*ResultView, error) {
	ts, err := s.tokens.ShareTimestamp(strings.TrimSpace(token))
	if err != nil {
		return nil, &ServiceError{Code: ErrorUnauthorized, Message: "share.invalid", Err: err}
	}
	return s.results.View(ctx, ts)
}
