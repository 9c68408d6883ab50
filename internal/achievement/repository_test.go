package achievement

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"ai-care-backend/internal/schema"
	"ai-care-backend/internal/tabular"
)

func newTestRepo(t *testing.T) *sheetRepo {
	t.Helper()
	backend := tabular.NewMemoryBackend()
	columns, err := schema.ColumnNames(schema.TableAchievements)
	if err != nil {
		t.Fatal(err)
	}
	if err := backend.CreateTable(context.Background(), schema.TableAchievements, columns); err != nil {
		t.Fatal(err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &sheetRepo{
		backend: backend,
		log:     log,
		now:     func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) },
	}
}

func TestAppendDefaultsIDAndDate(t *testing.T) {
	repo := newTestRepo(t)
	id, err := repo.Append(context.Background(), &Record{
		PatientID:     "P-1",
		AchievementID: "first_report",
		Type:          TypeCompletion,
		PointsEarned:  10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(id, "ACH-") {
		t.Errorf("id = %q, want ACH- prefix", id)
	}
	got, err := repo.Query(context.Background(), "P-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].UnlockedDate.Format("2006-01-02") != "2025-06-15" {
		t.Errorf("unlocked date = %v, want defaulted to today", got[0].UnlockedDate)
	}
}

func TestAppendValidation(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Append(context.Background(), &Record{Type: "legendary", PointsEarned: -5})
	var verr *tabular.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(verr.Violations) != 4 {
		t.Errorf("got %d violations, want 4: %v", len(verr.Violations), verr.Violations)
	}
}

func TestQueryOrdersByUnlockedDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	dates := []time.Time{
		time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		_, err := repo.Append(ctx, &Record{
			PatientID:     "P-1",
			AchievementID: "a" + string(rune('0'+i)),
			Type:          TypeStreak,
			UnlockedDate:  d,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	got, err := repo.Query(ctx, "P-1")
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].UnlockedDate.Before(got[i-1].UnlockedDate) {
			t.Errorf("ascending order violated at %d", i)
		}
	}
}

func TestUpdateIsRejected(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.Update(context.Background(), "ACH-x", map[string]string{"points_earned": "999"})
	if !errors.Is(err, tabular.ErrImmutableRecord) {
		t.Fatalf("err = %v, want ErrImmutableRecord", err)
	}
}
