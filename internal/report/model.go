package report

import "time"

// Report submission channels.
const (
	MethodAIChat        = "ai_chat"
	MethodQuestionnaire = "questionnaire"
	MethodVoice         = "voice"
)

// SymptomScores are the seven MDASI-LC symptom ratings, each in [0,10].
type SymptomScores struct {
	Pain     int `json:"pain_score"`
	Fatigue  int `json:"fatigue_score"`
	Dyspnea  int `json:"dyspnea_score"`
	Cough    int `json:"cough_score"`
	Sleep    int `json:"sleep_score"`
	Appetite int `json:"appetite_score"`
	Mood     int `json:"mood_score"`
}

// SymptomNotes are the optional free-text descriptions, one per symptom.
type SymptomNotes struct {
	Pain     string `json:"pain_description,omitempty"`
	Fatigue  string `json:"fatigue_description,omitempty"`
	Dyspnea  string `json:"dyspnea_description,omitempty"`
	Cough    string `json:"cough_description,omitempty"`
	Sleep    string `json:"sleep_description,omitempty"`
	Appetite string `json:"appetite_description,omitempty"`
	Mood     string `json:"mood_description,omitempty"`
}

// SafetyFlags are the hard safety checks. Any true flag forces a red
// alert regardless of scores.
type SafetyFlags struct {
	Fever         bool `json:"has_fever"`
	WoundIssue    bool `json:"has_wound_issue"`
	BloodInSputum bool `json:"has_blood_in_sputum"`
}

// Record is one symptom submission. Immutable once written; the derived
// fields (AvgScore, MaxScoreItem, Alert) are recomputed from the scores
// and safety flags at write time and never accepted from callers.
type Record struct {
	ReportID  string    `json:"report_id"`
	PatientID string    `json:"patient_id"`
	Date      time.Time `json:"date"`
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"report_method"`

	// OverallScore is the patient's holistic self-rating. It is distinct
	// from AvgScore and only validated, never recomputed.
	OverallScore int `json:"overall_score"`

	Scores SymptomScores `json:"scores"`
	Notes  SymptomNotes  `json:"descriptions"`
	Safety SafetyFlags   `json:"safety"`

	OpenEnded1      string `json:"open_ended_1,omitempty"`
	OpenEnded2      string `json:"open_ended_2,omitempty"`
	AdditionalNotes string `json:"additional_notes,omitempty"`

	AvgScore     float64    `json:"avg_score"`
	MaxScoreItem string     `json:"max_score_item"`
	Alert        AlertLevel `json:"alert_level"`

	// Staff-side handling state, populated outside this core.
	AlertHandled   bool      `json:"alert_handled"`
	HandledBy      string    `json:"handled_by,omitempty"`
	HandledTime    time.Time `json:"handled_time,omitempty"`
	HandlingAction string    `json:"handling_action,omitempty"`
	HandlingNotes  string    `json:"handling_notes,omitempty"`
}
