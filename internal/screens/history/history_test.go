package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/studybuddy/studybuddy/internal/store"
)

type mockAttemptRepo struct {
	attempts []store.Attempt
	stats    store.Stats
	err      error
}

func (m *mockAttemptRepo) Record(_ context.Context, _ *store.Attempt) error { return nil }
func (m *mockAttemptRepo) Recent(_ context.Context, _ int) ([]store.Attempt, error) {
	return m.attempts, m.err
}
func (m *mockAttemptRepo) ForDocument(_ context.Context, _ string, _ int) ([]store.Attempt, error) {
	return nil, nil
}
func (m *mockAttemptRepo) Stats(_ context.Context) (store.Stats, error) {
	return m.stats, m.err
}
func (m *mockAttemptRepo) Prune(_ context.Context, _ int) error { return nil }
func (m *mockAttemptRepo) Purge(_ context.Context) error        { return nil }

func testAttempts() []store.Attempt {
	finished := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)
	return []store.Attempt{
		{
			ID:              "a1",
			DocumentName:    "biology.pdf",
			QuizTitle:       "Cell Biology",
			Mode:            "mixed",
			Questions:       10,
			Correct:         8,
			Percent:         80,
			DurationSeconds: 245,
			FinishedAt:      finished,
		},
		{
			ID:              "a2",
			DocumentName:    "chemistry.pdf",
			QuizTitle:       "Acids and Bases",
			Mode:            "choice",
			Questions:       5,
			Correct:         2,
			Percent:         40,
			AutoSubmitted:   true,
			DurationSeconds: 600,
			FinishedAt:      finished.Add(-time.Hour),
		},
	}
}

func loadedScreen(t *testing.T, repo *mockAttemptRepo) *HistoryScreen {
	t.Helper()
	s := New(repo)
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("Init returned no command")
	}
	s.Update(cmd())
	if !s.loaded {
		t.Fatal("screen did not load")
	}
	return s
}

func TestHistoryScreen_LoadsAttemptsAndStats(t *testing.T) {
	repo := &mockAttemptRepo{
		attempts: testAttempts(),
		stats:    store.Stats{Attempts: 2, AvgPercent: 60, BestPercent: 80, AutoSubmitted: 1},
	}
	s := loadedScreen(t, repo)

	if len(s.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(s.rows))
	}
	if s.stats.Attempts != 2 || s.stats.BestPercent != 80 {
		t.Errorf("stats = %+v", s.stats)
	}
}

func TestHistoryScreen_LoadFailureShowsError(t *testing.T) {
	repo := &mockAttemptRepo{err: errors.New("database is locked")}
	s := loadedScreen(t, repo)

	if s.errMsg == "" {
		t.Error("expected an error message")
	}
	if s.View(80, 24) == "" {
		t.Error("error view is empty")
	}
}

func TestHistoryScreen_NavigationClamps(t *testing.T) {
	s := loadedScreen(t, &mockAttemptRepo{attempts: testAttempts()})

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want last row", s.selected)
	}
}

func TestHistoryScreen_EnterTogglesDetails(t *testing.T) {
	s := loadedScreen(t, &mockAttemptRepo{attempts: testAttempts()})

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.expanded[0] {
		t.Error("enter did not expand the row")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.expanded[0] {
		t.Error("enter did not collapse the row")
	}
}

func TestHistoryScreen_EmptyHistory(t *testing.T) {
	s := loadedScreen(t, &mockAttemptRepo{})
	if s.View(80, 24) == "" {
		t.Error("empty-state view is empty")
	}
}
