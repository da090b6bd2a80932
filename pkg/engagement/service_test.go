package engagement

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igengage/pkg/errors"
	"igengage/pkg/logger"
)

type recordingObserver struct {
	mu       sync.Mutex
	started  int
	outcomes []Outcome
}

func (o *recordingObserver) CheckStarted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *recordingObserver) CheckFinished(outcome Outcome, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func staticFetcher(s Snapshot, err error) FetcherFunc {
	return func(ctx context.Context, username string) (Snapshot, error) {
		return s, err
	}
}

func TestServiceCheck(t *testing.T) {
	var gotUsername string
	fetcher := FetcherFunc(func(ctx context.Context, username string) (Snapshot, error) {
		gotUsername = username
		return Snapshot{
			Followers:    1000,
			PostLikes:    []int64{40, 60},
			PostComments: []int64{10, 20},
		}, nil
	})

	obs := &recordingObserver{}
	log := logger.NewTestLogger()
	svc := NewService(fetcher, NewCalculator(2), WithObserver(obs), WithLogger(log))

	report, err := svc.Check(context.Background(), "  @natgeo/ ")
	require.NoError(t, err)

	assert.Equal(t, "natgeo", gotUsername)
	assert.Equal(t, "natgeo", report.Username)
	assert.Equal(t, int64(1000), report.Followers)
	assert.Equal(t, 2, report.PostsAnalyzed)
	assert.Equal(t, int64(50), report.Result.AverageLikes)
	assert.Equal(t, int64(15), report.Result.AverageComments)
	assert.Equal(t, 6.5, report.Result.EngagementRate)
	assert.Equal(t, RatingExcellent, report.Rating)
	assert.Equal(t, "https://www.instagram.com/natgeo/", report.ProfileURL)
	assert.Len(t, report.ID, 36)
	assert.False(t, report.FetchedAt.IsZero())

	assert.Equal(t, 1, obs.started)
	assert.Equal(t, []Outcome{OutcomeOK}, obs.outcomes)
	assert.True(t, log.HasMessage("INFO", "Engagement computed"))
}

func TestServiceCheckEmptyInput(t *testing.T) {
	called := false
	fetcher := FetcherFunc(func(ctx context.Context, username string) (Snapshot, error) {
		called = true
		return Snapshot{}, nil
	})
	obs := &recordingObserver{}
	svc := NewService(fetcher, NewCalculator(2), WithObserver(obs))

	for _, input := range []string{"", "   ", "@", " @/ "} {
		report, err := svc.Check(context.Background(), input)
		assert.Nil(t, report)
		assert.ErrorIs(t, err, errors.ErrEmptyUsername, "input %q", input)
	}
	assert.False(t, called, "fetcher must not run for blank input")
	assert.Equal(t, OutcomeEmptyInput, obs.outcomes[0])
}

func TestServiceCheckNotAccessible(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		err      error
		want     error
	}{
		{"not found sentinel", Snapshot{}, errors.ErrProfileNotFound, errors.ErrProfileNotFound},
		{"private sentinel", Snapshot{}, errors.ErrProfilePrivate, errors.ErrProfilePrivate},
		{"zero snapshot without error", Snapshot{}, nil, errors.ErrProfileNotFound},
		{"followers but no posts", Snapshot{Followers: 500}, nil, errors.ErrNoVisiblePosts},
		{"posts but zero followers", Snapshot{PostLikes: []int64{1}, PostComments: []int64{1}}, nil, errors.ErrProfileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			svc := NewService(staticFetcher(tt.snapshot, tt.err), NewCalculator(2), WithObserver(obs))

			report, err := svc.Check(context.Background(), "someone")
			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, errors.ErrNotAccessible)
			assert.Equal(t, []Outcome{OutcomeNotFound}, obs.outcomes)
		})
	}
}

func TestServiceCheckFetchError(t *testing.T) {
	fetchErr := errors.New(errors.ErrorTypeServerError, http.StatusBadGateway, "upstream failed")
	obs := &recordingObserver{}
	log := logger.NewTestLogger()
	svc := NewService(staticFetcher(Snapshot{}, fetchErr), NewCalculator(2), WithObserver(obs), WithLogger(log))

	report, err := svc.Check(context.Background(), "someone")
	assert.Nil(t, report)
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))
	assert.Equal(t, errors.ErrorTypeServerError, errors.TypeOf(err))
	assert.False(t, errors.Is(err, errors.ErrNotAccessible))
	assert.Equal(t, []Outcome{OutcomeFetchError}, obs.outcomes)

	require.Len(t, log.GetMessagesByLevel("ERROR"), 1)
	assert.Equal(t, "server_error", log.GetMessagesByLevel("ERROR")[0].Fields["error_type"])
}

func TestServiceCheckUntypedFetchError(t *testing.T) {
	svc := NewService(staticFetcher(Snapshot{}, fmt.Errorf("socket closed")), NewCalculator(2))

	_, err := svc.Check(context.Background(), "someone")
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))
	assert.Equal(t, errors.ErrorTypeUnknown, errors.TypeOf(err))
	assert.Contains(t, err.Error(), "socket closed")
	assert.Equal(t, OutcomeFetchError, Classify(err))
}

func TestServiceCheckInvalidUsernameSkipsFetch(t *testing.T) {
	called := false
	fetcher := FetcherFunc(func(ctx context.Context, username string) (Snapshot, error) {
		called = true
		return Snapshot{}, nil
	})
	obs := &recordingObserver{}
	svc := NewService(fetcher, NewCalculator(2), WithObserver(obs))

	for _, input := range []string{"bad-name", "two words", "../etc", "abcdefghijklmnopqrstuvwxyz12345"} {
		report, err := svc.Check(context.Background(), input)
		assert.Nil(t, report)
		assert.ErrorIs(t, err, errors.ErrProfileNotFound, "input %q", input)
	}
	assert.False(t, called, "fetcher must not run for an impossible username")
	assert.Equal(t, OutcomeNotFound, obs.outcomes[0])
}

func TestServiceCheckMisalignedSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
	}{
		{"more likes than comments", Snapshot{Followers: 500, PostLikes: []int64{1, 2}, PostComments: []int64{1}}},
		{"comments without likes", Snapshot{Followers: 500, PostComments: []int64{3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			log := logger.NewTestLogger()
			svc := NewService(staticFetcher(tt.snapshot, nil), NewCalculator(2), WithObserver(obs), WithLogger(log))

			report, err := svc.Check(context.Background(), "someone")
			assert.Nil(t, report)
			assert.ErrorIs(t, err, errors.ErrInvalidSnapshot)
			assert.NotErrorIs(t, err, errors.ErrNotAccessible)
			assert.Equal(t, []Outcome{OutcomeInternal}, obs.outcomes)
			assert.True(t, log.HasError())
		})
	}
}

func TestServiceCheckTimeout(t *testing.T) {
	fetcher := FetcherFunc(func(ctx context.Context, username string) (Snapshot, error) {
		<-ctx.Done()
		return Snapshot{}, errors.Wrap(errors.ErrorTypeNetwork, 0, ctx.Err(), "request cancelled")
	})
	svc := NewService(fetcher, NewCalculator(2), WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := svc.Check(context.Background(), "slow")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestServiceConcurrentChecksAreIndependent(t *testing.T) {
	// Each username maps to its own follower count so responses can be traced.
	followers := map[string]int64{}
	for i := 0; i < 20; i++ {
		followers[fmt.Sprintf("user%d", i)] = int64(1000 * (i + 1))
	}

	fetcher := FetcherFunc(func(ctx context.Context, username string) (Snapshot, error) {
		time.Sleep(time.Millisecond)
		return Snapshot{
			Followers:    followers[username],
			PostLikes:    []int64{100},
			PostComments: []int64{0},
		}, nil
	})
	svc := NewService(fetcher, NewCalculator(2))

	var wg sync.WaitGroup
	for name, want := range followers {
		wg.Add(1)
		go func(name string, want int64) {
			defer wg.Done()
			report, err := svc.Check(context.Background(), name)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, name, report.Username)
			assert.Equal(t, want, report.Followers)
			// Half a hundredth plus float slack.
			assert.InDelta(t, 100/float64(want)*100, report.Result.EngagementRate, 0.0051)
		}(name, want)
	}
	wg.Wait()
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeOK, Classify(nil))
	assert.Equal(t, OutcomeEmptyInput, Classify(errors.ErrEmptyUsername))
	assert.Equal(t, OutcomeNotFound, Classify(errors.ErrProfilePrivate))
	assert.Equal(t, OutcomeInternal, Classify(fmt.Errorf("x: %w", errors.ErrInvalidSnapshot)))
	assert.Equal(t, OutcomeFetchError, Classify(errors.New(errors.ErrorTypeNetwork, 0, "dial")))
}
