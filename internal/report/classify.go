package report

import (
	"fmt"
	"math"
)

// AlertLevel is the tri-level clinical alert attached to every report.
type AlertLevel string

const (
	AlertGreen  AlertLevel = "green"
	AlertYellow AlertLevel = "yellow"
	AlertRed    AlertLevel = "red"
)

// Classification carries the alert level and the two derived scalars.
type Classification struct {
	Level        AlertLevel `json:"alert_level"`
	AvgScore     float64    `json:"avg_score"`
	MaxScoreItem string     `json:"max_score_item"`
}

// symptomRanking is the fixed clinical severity ordering used to break
// ties for MaxScoreItem. Earlier entries outrank later ones.
var symptomRanking = []struct {
	name string
	get  func(SymptomScores) int
}{
	{"pain", func(s SymptomScores) int { return s.Pain }},
	{"dyspnea", func(s SymptomScores) int { return s.Dyspnea }},
	{"cough", func(s SymptomScores) int { return s.Cough }},
	{"fatigue", func(s SymptomScores) int { return s.Fatigue }},
	{"sleep", func(s SymptomScores) int { return s.Sleep }},
	{"appetite", func(s SymptomScores) int { return s.Appetite }},
	{"mood", func(s SymptomScores) int { return s.Mood }},
}

// Classify maps a report's scores and safety flags to an alert level plus
// the derived scalars. It is a pure function: identical input always
// yields identical output, and it never falls back to green on error.
//
// Safety flags dominate: any true flag is red regardless of scores.
// Otherwise the maximum individual symptom score decides the level, so a
// single severe symptom is not diluted by six mild ones:
// max >= 7 red, 4..6 yellow, <= 3 green.
func Classify(scores SymptomScores, flags SafetyFlags) (Classification, error) {
	sum := 0
	maxScore := -1
	maxItem := ""
	for _, s := range symptomRanking {
		v := s.get(scores)
		if v < 0 || v > 10 {
			return Classification{}, fmt.Errorf("symptom score %s=%d outside [0,10]", s.name, v)
		}
		sum += v
		if v > maxScore {
			maxScore = v
			maxItem = s.name
		}
	}

	avg := math.Round(float64(sum)/float64(len(symptomRanking))*10) / 10

	level := AlertGreen
	switch {
	case flags.Fever || flags.WoundIssue || flags.BloodInSputum:
		level = AlertRed
	case maxScore >= 7:
		level = AlertRed
	case maxScore >= 4:
		level = AlertYellow
	}

	return Classification{Level: level, AvgScore: avg, MaxScoreItem: maxItem}, nil
}
