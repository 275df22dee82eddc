package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rcliao/pair-assessment/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateAssessment(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty ID")
	}

	a, err := s.LoadAssessment(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.ID != id {
		t.Errorf("expected id %s, got %s", id, a.ID)
	}
	if a.Lifecycle != (model.Lifecycle{}) {
		t.Errorf("expected fresh lifecycle, got %+v", a.Lifecycle)
	}
	if len(a.Scores) != 0 {
		t.Errorf("expected no scores, got %d", len(a.Scores))
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := s.CreateAssessment(ctx)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestLoadNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadAssessment(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertScoreIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id, _ := s.CreateAssessment(ctx)

	for i := 0; i < 3; i++ {
		if err := s.UpsertScore(ctx, id, model.Partner1, "h1", 4); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	s.UpsertScore(ctx, id, model.Partner2, "h1", 2)

	a, _ := s.LoadAssessment(ctx, id)
	if len(a.Scores) != 2 {
		t.Fatalf("expected 2 score rows, got %d", len(a.Scores))
	}
	if a.Scores[0] != (model.ScoreRecord{Partner: model.Partner1, AttributeID: "h1", Value: 4}) {
		t.Errorf("unexpected first score %+v", a.Scores[0])
	}

	// overwrite
	s.UpsertScore(ctx, id, model.Partner1, "h1", 1)
	a, _ = s.LoadAssessment(ctx, id)
	if a.Scores[0].Value != 1 {
		t.Errorf("expected overwritten value 1, got %d", a.Scores[0].Value)
	}
}

func TestUpsertScoreRejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id, _ := s.CreateAssessment(ctx)

	if err := s.UpsertScore(ctx, id, model.Partner1, "h1", 6); err == nil {
		t.Fatal("expected check constraint error for value 6")
	}
	if err := s.UpsertScore(ctx, id, 3, "h1", 2); err == nil {
		t.Fatal("expected check constraint error for partner 3")
	}
}

func TestUpsertScoreUnknownAssessment(t *testing.T) {
	s := newTestStore(t)
	err := s.UpsertScore(context.Background(), "missing", model.Partner1, "h1", 2)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFlags(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id, _ := s.CreateAssessment(ctx)

	if err := s.SetCompletion(ctx, id, model.Partner2, true); err != nil {
		t.Fatalf("set completion: %v", err)
	}
	if err := s.SetResultsRevealed(ctx, id, true); err != nil {
		t.Fatalf("set revealed: %v", err)
	}
	if err := s.SetPartnerNames(ctx, id, model.PartnerNames{Partner1: "Ana", Partner2: "Ben"}); err != nil {
		t.Fatalf("set names: %v", err)
	}

	a, _ := s.LoadAssessment(ctx, id)
	want := model.Lifecycle{Partner2Done: true, ResultsRevealed: true}
	if a.Lifecycle != want {
		t.Errorf("expected %+v, got %+v", want, a.Lifecycle)
	}
	if a.Names.Partner1 != "Ana" || a.Names.Partner2 != "Ben" {
		t.Errorf("unexpected names %+v", a.Names)
	}

	s.SetResultsRevealed(ctx, id, false)
	a, _ = s.LoadAssessment(ctx, id)
	if a.Lifecycle.ResultsRevealed {
		t.Error("expected results hidden again")
	}

	if err := s.SetCompletion(ctx, id, 9, true); err == nil {
		t.Error("expected error for invalid partner")
	}
	if err := s.SetCompletion(ctx, "missing", model.Partner1, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAssessments(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, _ := s.CreateAssessment(ctx)
	second, _ := s.CreateAssessment(ctx)
	s.UpsertScore(ctx, second, model.Partner1, "h1", 3)
	s.UpsertScore(ctx, second, model.Partner1, "h2", 3)
	s.SetCompletion(ctx, first, model.Partner1, true)

	list, err := s.ListAssessments(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2, got %d", len(list))
	}

	byID := map[string]Summary{}
	for _, sm := range list {
		byID[sm.ID] = sm
	}
	if byID[second].Rated1 != 2 || byID[second].Rated2 != 0 {
		t.Errorf("unexpected counts %+v", byID[second])
	}
	if byID[first].Phase != model.PhaseAwaitingSecond {
		t.Errorf("expected awaiting phase, got %s", byID[first].Phase)
	}

	limited, _ := s.ListAssessments(ctx, ListParams{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected limit 1, got %d", len(limited))
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	dbPath := filepath.Join(t.TempDir(), "unused.db")

	a, _ := s.CreateAssessment(ctx)
	s.CreateAssessment(ctx)
	s.UpsertScore(ctx, a, model.Partner2, "x1", 5)
	s.SetCompletion(ctx, a, model.Partner1, true)
	s.SetCompletion(ctx, a, model.Partner2, true)

	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalAssessments != 2 {
		t.Errorf("expected 2 assessments, got %d", st.TotalAssessments)
	}
	if st.TotalScores != 1 {
		t.Errorf("expected 1 score, got %d", st.TotalScores)
	}
	if st.Phases[model.PhaseResultsHidden] != 1 || st.Phases[model.PhaseCollecting] != 1 {
		t.Errorf("unexpected phases %v", st.Phases)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	id, _ := src.CreateAssessment(ctx)
	src.UpsertScore(ctx, id, model.Partner1, "h1", 4)
	src.UpsertScore(ctx, id, model.Partner2, "s6", 2)
	src.SetCompletion(ctx, id, model.Partner1, true)
	src.SetPartnerNames(ctx, id, model.PartnerNames{Partner1: "Ana", Partner2: "Ben"})

	exported, err := src.ExportAll(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(exported) != 1 {
		t.Fatalf("expected 1 exported, got %d", len(exported))
	}

	dst := newTestStore(t)
	n, err := dst.Import(ctx, exported)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 imported, got %d", n)
	}

	got, err := dst.LoadAssessment(ctx, id)
	if err != nil {
		t.Fatalf("load imported: %v", err)
	}
	if got.Lifecycle != exported[0].Lifecycle || got.Names != exported[0].Names {
		t.Errorf("flags or names differ: %+v vs %+v", got, exported[0])
	}
	if len(got.Scores) != 2 {
		t.Errorf("expected 2 scores, got %d", len(got.Scores))
	}

	// importing again skips the existing id
	n, _ = dst.Import(ctx, exported)
	if n != 0 {
		t.Errorf("expected duplicate to be skipped, got %d", n)
	}
}

func TestImportRejectsInvalidScore(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Import(context.Background(), []model.Assessment{{
		ID:     "bad",
		Scores: []model.ScoreRecord{{Partner: model.Partner1, AttributeID: "h1", Value: 8}},
	}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := s.LoadAssessment(context.Background(), "bad"); !errors.Is(err, ErrNotFound) {
		t.Errorf("invalid import must not be partially written, got %v", err)
	}
}

func TestExportSingle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a, _ := s.CreateAssessment(ctx)
	s.CreateAssessment(ctx)

	one, err := s.ExportAll(ctx, a)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(one) != 1 || one[0].ID != a {
		t.Errorf("expected only %s, got %+v", a, one)
	}
}
