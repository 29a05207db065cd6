package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSession(t *testing.T, load func(ctx context.Context, url string) (pageState, error)) *Session {
	t.Helper()
	s := New(Config{PaceUnit: time.Microsecond}, zap.NewNop())
	s.load = load
	return s
}

func TestNavigateSuccess(t *testing.T) {
	t.Parallel()

	s := testSession(t, func(_ context.Context, url string) (pageState, error) {
		assert.Equal(t, "https://example.org/ranking", url)
		return pageState{title: "Team ranking", html: "<html><body>rows</body></html>"}, nil
	})

	html, ok := s.Navigate(context.Background(), "https://example.org/ranking")
	require.True(t, ok)
	assert.Contains(t, html, "rows")
}

func TestNavigateTransportErrorReportedAsFailure(t *testing.T) {
	t.Parallel()

	s := testSession(t, func(_ context.Context, _ string) (pageState, error) {
		return pageState{}, errors.New("net::ERR_CONNECTION_RESET")
	})

	html, ok := s.Navigate(context.Background(), "https://example.org/x")
	assert.False(t, ok)
	assert.Empty(t, html)
}

func TestNavigateChallengeTriggersCooldownAndFailure(t *testing.T) {
	t.Parallel()

	s := testSession(t, func(_ context.Context, _ string) (pageState, error) {
		return pageState{title: "Just a moment...", html: "<html>challenge</html>"}, nil
	})

	html, ok := s.Navigate(context.Background(), "https://example.org/x")
	assert.False(t, ok)
	assert.Empty(t, html)
}

func TestNavigateHonorsContextDuringPause(t *testing.T) {
	t.Parallel()

	s := New(Config{PaceUnit: time.Hour}, zap.NewNop())
	s.load = func(_ context.Context, _ string) (pageState, error) {
		t.Fatal("load should not run after cancellation")
		return pageState{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Navigate(ctx, "https://example.org/x")
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Navigate did not return promptly on canceled context")
	}
}

func TestTabActionsReapplyFingerprint(t *testing.T) {
	t.Parallel()

	s := New(Config{UserAgent: "agent-x", ViewportWidth: 1024, ViewportHeight: 600}, zap.NewNop())

	var page pageState
	actions := s.tabActions("https://example.org/x", &page)
	require.GreaterOrEqual(t, len(actions), 2)

	ua, ok := actions[0].(*emulation.SetUserAgentOverrideParams)
	require.True(t, ok, "first tab action must pin the user agent")
	assert.Equal(t, "agent-x", ua.UserAgent)

	dm, ok := actions[1].(*emulation.SetDeviceMetricsOverrideParams)
	require.True(t, ok, "second tab action must pin the viewport")
	assert.Equal(t, int64(1024), dm.Width)
	assert.Equal(t, int64(600), dm.Height)
}

func TestCloseBeforeStartIsSafe(t *testing.T) {
	t.Parallel()

	s := New(Config{}, zap.NewNop())
	s.Close()
	s.Close()
}

func TestIsChallenge(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title string
		body  string
		want  bool
	}{
		{"Just a moment...", "", true},
		{"Cloudflare", "", true},
		{"Attention Required! | Cloudflare", "", true},
		{"Team ranking", "regular content", false},
		{"", "please verify you are human", true},
		{"", "regular content", false},
		{"News: Cloudflare outage analysis postmortem", "cloudflare cloudflare", true},
		// A real title wins even if the body mentions a marker phrase.
		{"Match report", "the cloudflare outage delayed the match", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsChallenge(tc.title, tc.body), "title=%q", tc.title)
	}
}
