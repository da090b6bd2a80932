package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"igengage/pkg/errors"
	"igengage/pkg/instagram"
	"igengage/pkg/logger"
)

// Fetcher retrieves the raw numbers for one profile.
// Implementations return ErrNotAccessible (or an error wrapping it) when the
// profile is missing or private, and *errors.Error for fetch failures.
type Fetcher interface {
	Fetch(ctx context.Context, username string) (Snapshot, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, username string) (Snapshot, error)

func (f FetcherFunc) Fetch(ctx context.Context, username string) (Snapshot, error) {
	return f(ctx, username)
}

// Observer is told about every check. pkg/metrics implements it.
type Observer interface {
	CheckStarted()
	CheckFinished(outcome Outcome, elapsed time.Duration)
}

// Outcome classifies how a check ended
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeEmptyInput Outcome = "empty_input"
	OutcomeNotFound   Outcome = "not_found"
	OutcomeFetchError Outcome = "fetch_error"
	OutcomeInternal   Outcome = "internal_error"
)

// Classify maps an error returned by Check onto an Outcome
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, errors.ErrEmptyUsername):
		return OutcomeEmptyInput
	case errors.Is(err, errors.ErrNotAccessible):
		return OutcomeNotFound
	case errors.Is(err, errors.ErrInvalidSnapshot):
		return OutcomeInternal
	default:
		return OutcomeFetchError
	}
}

// Report is the full answer to one engagement check
type Report struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Followers     int64         `json:"followers"`
	PostsAnalyzed int           `json:"posts_analyzed"`
	Result        Result        `json:"result"`
	Rating        Rating        `json:"rating"`
	ProfileURL    string        `json:"profile_url"`
	FetchedAt     time.Time     `json:"fetched_at"`
	Duration      time.Duration `json:"duration"`
}

// Service runs fetch-then-compute for both front-ends
type Service struct {
	fetcher    Fetcher
	calculator *Calculator
	timeout    time.Duration
	observer   Observer
	logger     logger.Logger
	now        func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithTimeout bounds each fetch. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithObserver reports every check to o
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithLogger sets the service logger
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a checker over fetcher and calculator
func NewService(fetcher Fetcher, calculator *Calculator, opts ...Option) *Service {
	s := &Service{
		fetcher:    fetcher,
		calculator: calculator,
		timeout:    15 * time.Second,
		logger:     logger.NewNopLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculator returns the calculator so callers can change its precision
func (s *Service) Calculator() *Calculator {
	return s.calculator
}

// Check trims rawUsername, fetches the profile and computes its engagement.
// It returns a complete Report or an error, never both.
func (s *Service) Check(ctx context.Context, rawUsername string) (*Report, error) {
	started := s.now()
	if s.observer != nil {
		s.observer.CheckStarted()
	}

	report, err := s.check(ctx, rawUsername, started)

	elapsed := s.now().Sub(started)
	if s.observer != nil {
		s.observer.CheckFinished(Classify(err), elapsed)
	}
	if err != nil {
		return nil, err
	}
	report.Duration = elapsed
	return report, nil
}

func (s *Service) check(ctx context.Context, rawUsername string, started time.Time) (*Report, error) {
	username := instagram.SanitizeUsername(rawUsername)
	if username == "" {
		return nil, errors.ErrEmptyUsername
	}

	id := uuid.NewString()
	log := s.logger.WithFields(map[string]interface{}{
		"check_id": id,
		"username": username,
	})

	// No account can carry a name Instagram would reject
	if !instagram.IsValidUsername(username) {
		log.Info("Username is not a valid Instagram handle")
		return nil, errors.ErrProfileNotFound
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log.Debug("Fetching profile")
	snapshot, err := s.fetcher.Fetch(ctx, username)
	if err != nil {
		if errors.Is(err, errors.ErrNotAccessible) {
			log.WithError(err).Info("Profile not accessible")
			return nil, err
		}
		if !errors.IsFetchError(err) {
			err = errors.Wrap(errors.ErrorTypeUnknown, 0, err, "fetch failed")
		}
		log.WithError(err).WithField("error_type", string(errors.TypeOf(err))).Error("Fetch failed")
		return nil, fmt.Errorf("fetch %s: %w", username, err)
	}

	if snapshot.Followers <= 0 || (len(snapshot.PostLikes) == 0 && len(snapshot.PostComments) == 0) {
		log.InfoWithFields("Profile has no usable data", map[string]interface{}{
			"followers": snapshot.Followers,
			"posts":     snapshot.Posts(),
		})
		if snapshot.Followers > 0 {
			return nil, errors.ErrNoVisiblePosts
		}
		return nil, errors.ErrProfileNotFound
	}

	result, err := s.calculator.Calculate(snapshot)
	if err != nil {
		log.WithError(err).Error("Calculation rejected snapshot")
		return nil, err
	}

	if snapshot.Username == "" {
		snapshot.Username = username
	}

	report := &Report{
		ID:            id,
		Username:      snapshot.Username,
		Followers:     snapshot.Followers,
		PostsAnalyzed: snapshot.Posts(),
		Result:        result,
		Rating:        RatingFor(result.EngagementRate),
		ProfileURL:    instagram.PublicProfileURL(snapshot.Username),
		FetchedAt:     started,
	}

	log.InfoWithFields("Engagement computed", map[string]interface{}{
		"followers":       report.Followers,
		"posts":           report.PostsAnalyzed,
		"engagement_rate": result.EngagementRate,
	})
	return report, nil
}
