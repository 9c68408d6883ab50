package achievement

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ai-care-backend/internal/schema"
	"ai-care-backend/internal/tabular"
)

const dateLayout = "2006-01-02"

type Repository interface {
	Append(ctx context.Context, rec *Record) (string, error)

	// Query returns a patient's unlock events ordered by unlocked date
	// ascending; empty patientID returns everything.
	Query(ctx context.Context, patientID string) ([]Record, error)

	// Update always fails: unlock events are immutable.
	Update(ctx context.Context, recordID string, patch map[string]string) error
}

type sheetRepo struct {
	backend tabular.Backend
	log     *logrus.Logger
	now     func() time.Time
}

func NewRepository(backend tabular.Backend, log *logrus.Logger) Repository {
	return &sheetRepo{backend: backend, log: log, now: time.Now}
}

func (r *sheetRepo) Append(ctx context.Context, rec *Record) (string, error) {
	if err := validate(rec); err != nil {
		return "", err
	}
	if rec.RecordID == "" {
		rec.RecordID = "ACH-" + uuid.NewString()
	}
	if rec.UnlockedDate.IsZero() {
		rec.UnlockedDate = r.now()
	}
	row := tabular.Row{
		"record_id":        rec.RecordID,
		"patient_id":       rec.PatientID,
		"achievement_id":   rec.AchievementID,
		"achievement_name": rec.AchievementName,
		"achievement_type": rec.Type,
		"unlocked_date":    rec.UnlockedDate.Format(dateLayout),
		"points_earned":    strconv.Itoa(rec.PointsEarned),
	}
	if err := r.backend.AppendRow(ctx, schema.TableAchievements, row); err != nil {
		return "", fmt.Errorf("append achievement: %w", err)
	}
	return rec.RecordID, nil
}

func (r *sheetRepo) Query(ctx context.Context, patientID string) ([]Record, error) {
	rows, err := r.backend.ReadRows(ctx, schema.TableAchievements)
	if err != nil {
		return nil, fmt.Errorf("read achievements: %w", err)
	}
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			r.log.WithFields(logrus.Fields{"row": i + 1, "error": err}).
				Warn("skipping unreadable achievement row")
			continue
		}
		if patientID != "" && rec.PatientID != patientID {
			continue
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UnlockedDate.Before(records[j].UnlockedDate)
	})
	return records, nil
}

func (r *sheetRepo) Update(ctx context.Context, recordID string, patch map[string]string) error {
	return fmt.Errorf("update achievement %s: %w", recordID, tabular.ErrImmutableRecord)
}

func validate(rec *Record) error {
	var v []tabular.Violation
	if rec.PatientID == "" {
		v = append(v, tabular.Violation{Field: "patient_id", Message: "required"})
	}
	if rec.AchievementID == "" {
		v = append(v, tabular.Violation{Field: "achievement_id", Message: "required"})
	}
	switch rec.Type {
	case TypeStreak, TypeCompletion, TypeSpecial:
	default:
		v = append(v, tabular.Violation{
			Field:   "achievement_type",
			Message: fmt.Sprintf("must be one of streak, completion, special; got %q", rec.Type),
		})
	}
	if rec.PointsEarned < 0 {
		v = append(v, tabular.Violation{
			Field:   "points_earned",
			Message: fmt.Sprintf("must be non-negative; got %d", rec.PointsEarned),
		})
	}
	if len(v) > 0 {
		return &tabular.ValidationError{Violations: v}
	}
	return nil
}

func fromRow(row tabular.Row) (Record, error) {
	date, err := time.Parse(dateLayout, row.Get("unlocked_date"))
	if err != nil {
		return Record{}, fmt.Errorf("unlocked_date: %w", err)
	}
	points := 0
	if raw := row.Get("points_earned"); raw != "" {
		if points, err = strconv.Atoi(raw); err != nil {
			return Record{}, fmt.Errorf("points_earned: %w", err)
		}
	}
	return Record{
		RecordID:        row.Get("record_id"),
		PatientID:       row.Get("patient_id"),
		AchievementID:   row.Get("achievement_id"),
		AchievementName: row.Get("achievement_name"),
		Type:            row.Get("achievement_type"),
		UnlockedDate:    date,
		PointsEarned:    points,
	}, nil
}
