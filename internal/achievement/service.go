package achievement

import (
	"context"
	"sort"
)

// levelThresholds maps cumulative points to patient levels: reaching
// thresholds[i] means level i+1.
var levelThresholds = []int{0, 50, 150, 300, 500, 800, 1200}

type Service interface {
	Unlock(ctx context.Context, rec *Record) (string, error)
	List(ctx context.Context, patientID string) ([]Record, error)

	// Stats aggregates a patient's unlocks. Duplicate rows for the same
	// (patient_id, achievement_id) pair count once, keeping the earliest
	// unlocked date, since uniqueness is not enforced at write time.
	Stats(ctx context.Context, patientID string) (*Stats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Unlock(ctx context.Context, rec *Record) (string, error) {
	return s.repo.Append(ctx, rec)
}

func (s *service) List(ctx context.Context, patientID string) ([]Record, error) {
	return s.repo.Query(ctx, patientID)
}

func (s *service) Stats(ctx context.Context, patientID string) (*Stats, error) {
	records, err := s.repo.Query(ctx, patientID)
	if err != nil {
		return nil, err
	}

	// De-duplicate by achievement id, keeping the earliest unlock.
	earliest := make(map[string]Record)
	for _, rec := range records {
		prev, seen := earliest[rec.AchievementID]
		if !seen || rec.UnlockedDate.Before(prev.UnlockedDate) {
			earliest[rec.AchievementID] = rec
		}
	}

	stats := &Stats{
		PatientID:   patientID,
		CountByType: make(map[string]int),
		UnlockedIDs: make([]string, 0, len(earliest)),
	}
	for id, rec := range earliest {
		stats.TotalAchievements++
		stats.TotalPoints += rec.PointsEarned
		stats.CountByType[rec.Type]++
		stats.UnlockedIDs = append(stats.UnlockedIDs, id)
	}
	sort.Strings(stats.UnlockedIDs)

	stats.Level = 1
	for i, threshold := range levelThresholds {
		if stats.TotalPoints >= threshold {
			stats.Level = i + 1
		}
	}
	return stats, nil
}
