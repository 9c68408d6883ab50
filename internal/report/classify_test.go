package report

import "testing"

func TestClassifySingleSevereSymptomIsRed(t *testing.T) {
	scores := SymptomScores{Pain: 2, Fatigue: 3, Dyspnea: 7, Cough: 1, Sleep: 2, Appetite: 1, Mood: 0}
	cls, err := Classify(scores, SafetyFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if cls.Level != AlertRed {
		t.Errorf("level = %q, want red", cls.Level)
	}
	if cls.MaxScoreItem != "dyspnea" {
		t.Errorf("max item = %q, want dyspnea", cls.MaxScoreItem)
	}
	// (2+3+7+1+2+1+0)/7 = 2.2857..., rounded to one decimal.
	if cls.AvgScore != 2.3 {
		t.Errorf("avg = %v, want 2.3", cls.AvgScore)
	}
}

func TestClassifySafetyFlagOverridesLowScores(t *testing.T) {
	cases := []SafetyFlags{
		{Fever: true},
		{WoundIssue: true},
		{BloodInSputum: true},
	}
	for _, flags := range cases {
		cls, err := Classify(SymptomScores{}, flags)
		if err != nil {
			t.Fatal(err)
		}
		if cls.Level != AlertRed {
			t.Errorf("flags %+v: level = %q, want red", flags, cls.Level)
		}
		if cls.AvgScore != 0 {
			t.Errorf("flags %+v: avg = %v, want 0", flags, cls.AvgScore)
		}
	}
}

func TestClassifyThresholds(t *testing.T) {
	cases := []struct {
		max  int
		want AlertLevel
	}{
		{0, AlertGreen},
		{3, AlertGreen},
		{4, AlertYellow},
		{6, AlertYellow},
		{7, AlertRed},
		{10, AlertRed},
	}
	for _, tc := range cases {
		cls, err := Classify(SymptomScores{Fatigue: tc.max}, SafetyFlags{})
		if err != nil {
			t.Fatal(err)
		}
		if cls.Level != tc.want {
			t.Errorf("max score %d: level = %q, want %q", tc.max, cls.Level, tc.want)
		}
	}
}

func TestClassifyTieBreakFollowsSeverityRanking(t *testing.T) {
	// Pain and dyspnea tie at 6; pain outranks dyspnea.
	cls, err := Classify(SymptomScores{Pain: 6, Dyspnea: 6}, SafetyFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if cls.MaxScoreItem != "pain" {
		t.Errorf("max item = %q, want pain", cls.MaxScoreItem)
	}

	// Cough and mood tie at 5; cough outranks mood.
	cls, err = Classify(SymptomScores{Cough: 5, Mood: 5}, SafetyFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if cls.MaxScoreItem != "cough" {
		t.Errorf("max item = %q, want cough", cls.MaxScoreItem)
	}
}

func TestClassifyAllZeroStillNamesMaxItem(t *testing.T) {
	cls, err := Classify(SymptomScores{}, SafetyFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if cls.Level != AlertGreen {
		t.Errorf("level = %q, want green", cls.Level)
	}
	if cls.MaxScoreItem != "pain" {
		t.Errorf("max item = %q, want pain (first in ranking)", cls.MaxScoreItem)
	}
}

func TestClassifyRejectsOutOfDomainScores(t *testing.T) {
	if _, err := Classify(SymptomScores{Pain: 11}, SafetyFlags{}); err == nil {
		t.Error("expected error for score above 10")
	}
	if _, err := Classify(SymptomScores{Mood: -1}, SafetyFlags{}); err == nil {
		t.Error("expected error for negative score")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	scores := SymptomScores{Pain: 1, Fatigue: 4, Dyspnea: 2, Cough: 4, Sleep: 3, Appetite: 0, Mood: 2}
	first, err := Classify(scores, SafetyFlags{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := Classify(scores, SafetyFlags{})
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}
}
