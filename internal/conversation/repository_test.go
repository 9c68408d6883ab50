package conversation

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

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRepo(t *testing.T) *sheetRepo {
	t.Helper()
	backend := tabular.NewMemoryBackend()
	columns, err := schema.ColumnNames(schema.TableConversations)
	if err != nil {
		t.Fatal(err)
	}
	if err := backend.CreateTable(context.Background(), schema.TableConversations, columns); err != nil {
		t.Fatal(err)
	}
	clock := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	return &sheetRepo{
		backend: backend,
		log:     testLogger(),
		now:     func() time.Time { clock = clock.Add(time.Minute); return clock },
	}
}

func msg(patient, session, role, content string) *Message {
	return &Message{
		PatientID: patient,
		SessionID: session,
		Role:      role,
		Content:   content,
		Source:    SourceRawInput,
	}
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	id, err := repo.Append(context.Background(), msg("P-1", "S-1", RolePatient, "hello"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(id, "MSG-") {
		t.Errorf("id = %q, want MSG- prefix", id)
	}
	got, err := repo.Query(context.Background(), Filter{SessionID: "S-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Timestamp.IsZero() {
		t.Errorf("got = %v", got)
	}
}

func TestAppendCollectsAllViolations(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Append(context.Background(), &Message{Role: "nurse", Source: "telegram"})
	var verr *tabular.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(verr.Violations) != 5 {
		t.Errorf("got %d violations, want 5: %v", len(verr.Violations), verr.Violations)
	}
}

func TestQueryOrdersByTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	for _, content := range []string{"one", "two", "three"} {
		if _, err := repo.Append(ctx, msg("P-1", "S-1", RolePatient, content)); err != nil {
			t.Fatal(err)
		}
	}
	asc, err := repo.Query(ctx, Filter{SessionID: "S-1"})
	if err != nil {
		t.Fatal(err)
	}
	if asc[0].Content != "one" || asc[2].Content != "three" {
		t.Errorf("ascending = %v", asc)
	}
	desc, err := repo.Query(ctx, Filter{SessionID: "S-1", Descending: true})
	if err != nil {
		t.Fatal(err)
	}
	if desc[0].Content != "three" {
		t.Errorf("descending first = %q, want three", desc[0].Content)
	}
}

func TestUpdateIsRejected(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.Update(context.Background(), "MSG-x", map[string]string{"content": "edited"})
	if !errors.Is(err, tabular.ErrImmutableRecord) {
		t.Fatalf("err = %v, want ErrImmutableRecord", err)
	}
}
