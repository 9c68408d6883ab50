package achievement

import "time"

// Achievement kinds.
const (
	TypeStreak     = "streak"
	TypeCompletion = "completion"
	TypeSpecial    = "special"
)

// Record is one unlock event, immutable once written. A given
// (patient_id, achievement_id) pair should be unique, but the backend
// does not enforce it; duplicates are reconciled on read (see Stats).
type Record struct {
	RecordID        string    `json:"record_id"`
	PatientID       string    `json:"patient_id"`
	AchievementID   string    `json:"achievement_id"`
	AchievementName string    `json:"achievement_name"`
	Type            string    `json:"achievement_type"`
	UnlockedDate    time.Time `json:"unlocked_date"`
	PointsEarned    int       `json:"points_earned"`
}

// Stats is the computed per-patient view over unlock events.
type Stats struct {
	PatientID         string         `json:"patient_id"`
	TotalAchievements int            `json:"total_achievements"`
	TotalPoints       int            `json:"total_points"`
	Level             int            `json:"level"`
	CountByType       map[string]int `json:"count_by_type"`
	UnlockedIDs       []string       `json:"unlocked_ids"`
}
