package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igengage/pkg/engagement"
	"igengage/pkg/errors"
	"igengage/pkg/ui"
)

type fakeChecker struct {
	report *engagement.Report
	err    error
	calls  []string
}

func (f *fakeChecker) Check(ctx context.Context, username string) (*engagement.Report, error) {
	f.calls = append(f.calls, username)
	return f.report, f.err
}

func sampleReport() *engagement.Report {
	return &engagement.Report{
		Username:  "natgeo",
		Followers: 1234567,
		Result: engagement.Result{
			AverageLikes:    5000,
			AverageComments: 120,
			EngagementRate:  0.41,
		},
		Rating: engagement.RatingNeedsWork,
	}
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

// runCheck submits the form and feeds the check result back into the model
func runCheck(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := press(m, tea.KeyEnter)
	require.Equal(t, StateFetching, m.State())
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if result, ok := c().(CheckResultMsg); ok {
			next, _ := m.Update(result)
			return next.(Model)
		}
	}
	t.Fatal("no check result produced")
	return m
}

func TestEmptyInputWarnsWithoutFetching(t *testing.T) {
	checker := &fakeChecker{report: sampleReport()}
	m := NewModel(context.Background(), checker, 2)

	for _, input := range []string{"", "   "} {
		m.SetUsername(input)
		next, cmd := press(m, tea.KeyEnter)
		assert.Nil(t, cmd)
		assert.Equal(t, StateEditing, next.State())
		assert.Contains(t, next.View(), ui.MsgInvalidUsername)
	}
	assert.Empty(t, checker.calls)
}

func TestSuccessfulCheck(t *testing.T) {
	checker := &fakeChecker{report: sampleReport()}
	m := typeText(NewModel(context.Background(), checker, 2), "  natgeo ")

	m = runCheck(t, m)

	assert.Equal(t, []string{"natgeo"}, checker.calls)
	assert.Equal(t, StateDone, m.State())
	require.NotNil(t, m.Report())

	view := m.View()
	assert.Contains(t, view, "@natgeo")
	assert.Contains(t, view, "Followers: 1,234,567")
	assert.Contains(t, view, "Avg Likes: 5000")
	assert.Contains(t, view, "Avg Comments: 120")
	assert.Contains(t, view, "Engagement Rate: 0.41%")
	assert.Contains(t, view, "Like to Comment Ratio: 41.7:1")
	assert.Contains(t, view, "Audience Reach: 1.2M")
	assert.NotContains(t, view, ui.ErrorPrefix)
}

func TestFailedCheck(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", errors.ErrProfileNotFound, ui.ErrorPrefix + ui.MsgNotAccessible},
		{"private", errors.ErrProfilePrivate, ui.ErrorPrefix + ui.MsgNotAccessible},
		{"fetch error", fmt.Errorf("fetch x: %w", errors.New(errors.ErrorTypeServerError, 502, "bad gateway")), ui.ErrorPrefix + "bad gateway"},
		{"timeout", fmt.Errorf("fetch x: %w", context.DeadlineExceeded), ui.ErrorPrefix + "request timed out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := typeText(NewModel(context.Background(), &fakeChecker{err: tt.err}, 2), "someone")
			m = runCheck(t, m)

			assert.Equal(t, StateFailed, m.State())
			assert.Nil(t, m.Report())
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestServiceRejectsSanitizedEmptyUsername(t *testing.T) {
	m := typeText(NewModel(context.Background(), &fakeChecker{err: errors.ErrEmptyUsername}, 2), "@")
	m = runCheck(t, m)

	assert.Equal(t, StateEditing, m.State())
	assert.Contains(t, m.View(), ui.MsgInvalidUsername)
}

func TestInputIgnoredWhileFetching(t *testing.T) {
	m := typeText(NewModel(context.Background(), &fakeChecker{report: sampleReport()}, 2), "natgeo")
	m, _ = press(m, tea.KeyEnter)
	require.Equal(t, StateFetching, m.State())
	assert.Contains(t, m.View(), "Fetching data...")

	m = typeText(m, "zzz")
	assert.Equal(t, "natgeo", m.input.Value())

	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, StateFetching, m.State())
}

func TestStaleResultIgnored(t *testing.T) {
	m := typeText(NewModel(context.Background(), &fakeChecker{}, 2), "natgeo")
	m, _ = press(m, tea.KeyEnter)

	next, _ := m.Update(CheckResultMsg{Username: "someoneelse", Report: sampleReport()})
	assert.Equal(t, StateFetching, next.(Model).State())
}

func TestNewCheckClearsPreviousOutcome(t *testing.T) {
	checker := &fakeChecker{err: errors.ErrProfileNotFound}
	m := typeText(NewModel(context.Background(), checker, 2), "ghost")
	m = runCheck(t, m)
	require.Equal(t, StateFailed, m.State())

	checker.err = nil
	checker.report = sampleReport()
	m = runCheck(t, m)
	assert.Equal(t, StateDone, m.State())
	assert.NotContains(t, m.View(), ui.ErrorPrefix)
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := press(NewModel(context.Background(), &fakeChecker{}, 2), k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "editing", StateEditing.String())
	assert.Equal(t, "fetching", StateFetching.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
