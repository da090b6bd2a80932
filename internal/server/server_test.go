package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igengage/internal/server"
	"igengage/pkg/config"
	"igengage/pkg/engagement"
	"igengage/pkg/errors"
	"igengage/pkg/instagram/instagramtest"
	"igengage/pkg/logger"
	"igengage/pkg/metrics"
	"igengage/pkg/scraper"
)

// fakeChecker delegates to a function so each test controls the outcome
type fakeChecker struct {
	check func(ctx context.Context, username string) (*engagement.Report, error)
}

func (f *fakeChecker) Check(ctx context.Context, username string) (*engagement.Report, error) {
	return f.check(ctx, username)
}

func reportFor(username string, followers int64) *engagement.Report {
	return &engagement.Report{
		ID:        "11111111-2222-3333-4444-555555555555",
		Username:  username,
		Followers: followers,
		Result: engagement.Result{
			AverageLikes:    50,
			AverageComments: 15,
			EngagementRate:  6.5,
		},
	}
}

func newTestServer(t *testing.T, checker server.Checker) (*httptest.Server, *logger.TestLogger) {
	t.Helper()
	log := logger.NewTestLogger()
	cfg := config.DefaultConfig().Server
	srv := server.New(cfg, checker, metrics.NewCollector(), log)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, log
}

func postCheck(t *testing.T, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url+"/api/check-engagement", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestCheckEngagementSuccess(t *testing.T) {
	ts, _ := newTestServer(t, &fakeChecker{check: func(ctx context.Context, username string) (*engagement.Report, error) {
		return reportFor(username, 1000), nil
	}})

	resp, body := postCheck(t, ts.URL, `{"username":"natgeo"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", resp.Header.Get(server.CheckIDHeader))
	assert.Equal(t, map[string]interface{}{
		"followers":       1000.0,
		"avg_likes":       50.0,
		"avg_comments":    15.0,
		"engagement_rate": 6.5,
	}, body)
}

func TestCheckEngagementErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"empty username", `{"username":""}`, errors.ErrEmptyUsername, http.StatusBadRequest, server.MsgUsernameRequired},
		{"missing field", `{}`, errors.ErrEmptyUsername, http.StatusBadRequest, server.MsgUsernameRequired},
		{"malformed body", `{"username":`, nil, http.StatusBadRequest, server.MsgUsernameRequired},
		{"not found", `{"username":"ghost"}`, errors.ErrProfileNotFound, http.StatusNotFound, server.MsgNotAccessible},
		{"private", `{"username":"secret"}`, errors.ErrProfilePrivate, http.StatusNotFound, server.MsgNotAccessible},
		{"no posts", `{"username":"fresh"}`, errors.ErrNoVisiblePosts, http.StatusNotFound, server.MsgNotAccessible},
		{
			"fetch failure",
			`{"username":"natgeo"}`,
			errors.New(errors.ErrorTypeNetwork, 0, "dial tcp: connection refused"),
			http.StatusInternalServerError,
			server.MsgFetchFailed,
		},
		{
			"invalid snapshot",
			`{"username":"natgeo"}`,
			fmt.Errorf("%w: follower count is 0", errors.ErrInvalidSnapshot),
			http.StatusInternalServerError,
			server.MsgFetchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, log := newTestServer(t, &fakeChecker{check: func(ctx context.Context, username string) (*engagement.Report, error) {
				if tt.err == nil {
					t.Error("checker must not be called")
					return nil, errors.ErrEmptyUsername
				}
				return nil, tt.err
			}})

			resp, body := postCheck(t, ts.URL, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, map[string]interface{}{"error": tt.wantError}, body)

			if tt.wantStatus == http.StatusInternalServerError {
				assert.True(t, log.HasError(), "cause must be logged server side")
				assert.NotContains(t, body["error"], "connection refused")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, &fakeChecker{check: func(ctx context.Context, username string) (*engagement.Report, error) {
		t.Error("health must not call the checker")
		return nil, errors.ErrEmptyUsername
	}})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "healthy"}, body)
}

func TestCORS(t *testing.T) {
	ts, _ := newTestServer(t, &fakeChecker{check: func(ctx context.Context, username string) (*engagement.Report, error) {
		return reportFor(username, 10), nil
	}})

	t.Run("preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/check-engagement", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://somewhere.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Less(t, resp.StatusCode, 300)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("actual request", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/check-engagement", strings.NewReader(`{"username":"a"}`))
		require.NoError(t, err)
		req.Header.Set("Origin", "http://another.example")
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestLogging(t *testing.T) {
	ts, log := newTestServer(t, &fakeChecker{check: func(ctx context.Context, username string) (*engagement.Report, error) {
		return nil, errors.ErrProfileNotFound
	}})

	postCheck(t, ts.URL, `{"username":"ghost"}`)

	// The access log is written after the response is flushed.
	require.Eventually(t, func() bool {
		return log.HasMessage("WARN", "HTTP request client error")
	}, time.Second, 10*time.Millisecond)

	warns := log.GetMessagesByLevel("WARN")
	last := warns[len(warns)-1]
	assert.Equal(t, "HTTP request client error", last.Message)
	assert.Equal(t, http.StatusNotFound, last.Fields["status_code"])
	assert.Equal(t, "/api/check-engagement", last.Fields["path"])
	assert.NotEmpty(t, last.Fields["request_id"])
}

func TestMetricsEndpoint(t *testing.T) {
	collector := metrics.NewCollector()
	checker := engagement.NewService(
		engagement.FetcherFunc(func(ctx context.Context, username string) (engagement.Snapshot, error) {
			return engagement.Snapshot{}, errors.ErrProfilePrivate
		}),
		engagement.NewCalculator(2),
		engagement.WithObserver(collector),
	)

	cfg := config.DefaultConfig().Server
	ts := httptest.NewServer(server.New(cfg, checker, collector, logger.NewNopLogger()).Handler())
	defer ts.Close()

	postCheck(t, ts.URL, `{"username":"secret"}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, mustRead(t, resp), `igengage_checks_total{outcome="not_found"} 1`)

	t.Run("disabled", func(t *testing.T) {
		cfg.MetricsEnabled = false
		ts := httptest.NewServer(server.New(cfg, checker, collector, logger.NewNopLogger()).Handler())
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func mustRead(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// TestEndToEnd runs the real service and scraper against a fake Instagram.
func TestEndToEnd(t *testing.T) {
	ig := instagramtest.NewServer()
	defer ig.Close()
	ig.AddProfile(instagramtest.Profile{
		Username:  "natgeo",
		Followers: 1000,
		Posts:     []instagramtest.Post{{Likes: 40, Comments: 10}, {Likes: 60, Comments: 20}},
	})
	ig.AddProfile(instagramtest.Profile{Username: "secret", Followers: 10, Private: true})
	ig.SetError("broken", http.StatusInternalServerError)
	ig.AddProfile(instagramtest.Profile{Username: "walled", Followers: 500, Posts: make([]instagramtest.Post, 3)})
	ig.SetLoginRequired("walled")
	ig.AddProfile(instagramtest.Profile{Username: "limited", Followers: 500, Posts: make([]instagramtest.Post, 3)})
	ig.SetError("limited", http.StatusTooManyRequests)

	cfg := config.DefaultConfig()
	cfg.Instagram.BaseURL = ig.URL()

	svc := engagement.NewService(scraper.New(cfg.Instagram, logger.NewNopLogger()), engagement.NewCalculator(2))
	ts := httptest.NewServer(server.New(cfg.Server, svc, nil, logger.NewNopLogger()).Handler())
	defer ts.Close()

	resp, body := postCheck(t, ts.URL, `{"username":"  @natgeo "}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1000.0, body["followers"])
	assert.Equal(t, 50.0, body["avg_likes"])
	assert.Equal(t, 15.0, body["avg_comments"])
	assert.Equal(t, 6.5, body["engagement_rate"])

	resp, _ = postCheck(t, ts.URL, `{"username":"secret"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = postCheck(t, ts.URL, `{"username":"nobody"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = postCheck(t, ts.URL, `{"username":"broken"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, server.MsgFetchFailed, body["error"])

	for _, blocked := range []string{"walled", "limited"} {
		resp, body = postCheck(t, ts.URL, fmt.Sprintf(`{"username":%q}`, blocked))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, blocked)
		assert.Equal(t, server.MsgFetchFailed, body["error"], blocked)
	}

	resp, _ = postCheck(t, ts.URL, `{"username":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConcurrentRequestsDoNotInterfere(t *testing.T) {
	ts, _ := newTestServer(t, &fakeChecker{check: func(ctx context.Context, username string) (*engagement.Report, error) {
		var n int64
		if _, err := fmt.Sscanf(username, "user%d", &n); err != nil {
			return nil, err
		}
		time.Sleep(time.Duration(n%3) * time.Millisecond)
		return reportFor(username, n), nil
	}})

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Post(ts.URL+"/api/check-engagement", "application/json",
				strings.NewReader(fmt.Sprintf(`{"username":"user%d"}`, i)))
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			var body server.CheckResponse
			if assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body)) {
				assert.Equal(t, int64(i), body.Followers)
			}
		}(i)
	}
	wg.Wait()
}

func TestRunAndShutdown(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.Host = "127.0.0.1"
	cfg.ShutdownTimeout = time.Second

	srv := server.New(cfg, &fakeChecker{}, nil, logger.NewNopLogger())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
