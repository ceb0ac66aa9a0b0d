package scoring

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		key        map[string]string
		answers    map[string]string
		correct    int
		incorrect  int
		empty      int
		percentage float64
		net        float64
	}{
		{
			name:  "one correct one incorrect one empty",
			total: 3,
			key:   map[string]string{"1": "A", "2": "B", "3": "C"},
			answers: map[string]string{
				"1": "A",
				"2": "C",
			},
			correct: 1, incorrect: 1, empty: 1,
			percentage: 100.0 / 3.0,
			net:        0.75,
		},
		{
			name:    "all correct",
			total:   2,
			key:     map[string]string{"1": "A", "2": "B"},
			answers: map[string]string{"1": "A", "2": "B"},
			correct: 2, incorrect: 0, empty: 0,
			percentage: 100,
			net:        2,
		},
		{
			name:    "all empty",
			total:   4,
			key:     map[string]string{"1": "A", "2": "B", "3": "C", "4": "D"},
			answers: map[string]string{},
			correct: 0, incorrect: 0, empty: 4,
			percentage: 0,
			net:        0,
		},
		{
			name:    "zero questions",
			total:   0,
			key:     map[string]string{},
			answers: map[string]string{},
			correct: 0, incorrect: 0, empty: 0,
			percentage: 0,
			net:        0,
		},
		{
			name:    "net can go negative",
			total:   4,
			key:     map[string]string{"1": "A", "2": "A", "3": "A", "4": "A"},
			answers: map[string]string{"1": "B", "2": "C", "3": "D", "4": "E"},
			correct: 0, incorrect: 4, empty: 0,
			percentage: 0,
			net:        -1,
		},
		{
			name:    "answer outside canonical range is ignored",
			total:   2,
			key:     map[string]string{"1": "A", "2": "B"},
			answers: map[string]string{"1": "A", "2": "B", "9": "C"},
			correct: 2, incorrect: 0, empty: 0,
			percentage: 100,
			net:        2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.total, tc.key, tc.answers)
			assertSummary(t, got, tc.total, tc.correct, tc.incorrect, tc.empty, tc.percentage, tc.net)
		})
	}
}

func TestByTest_FirstAppearanceOrder(t *testing.T) {
	// Canonical layout: questions 1-2 are T2, 3-4 are T1, 5 is T3.
	key := map[string]string{"1": "A", "2": "B", "3": "C", "4": "D", "5": "E"}
	tests := map[string]string{"1": "T2", "2": "T2", "3": "T1", "4": "T1", "5": "T3"}
	answers := map[string]string{"1": "A", "2": "C", "4": "D", "5": "A"}

	got := ByTest(5, key, answers, tests)

	wantOrder := []string{"T2", "T1", "T3"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d groups, got %d", len(wantOrder), len(got))
	}
	for i, label := range wantOrder {
		if got[i].Test != label {
			t.Fatalf("group %d: expected %q, got %q", i, label, got[i].Test)
		}
	}

	assertSummary(t, got[0].Summary, 2, 1, 1, 0, 50, 0.75)
	assertSummary(t, got[1].Summary, 2, 1, 0, 1, 50, 1)
	assertSummary(t, got[2].Summary, 1, 0, 1, 0, 0, -0.25)
}

func TestByTest_DefaultLabel(t *testing.T) {
	key := map[string]string{"1": "A", "2": "B"}
	answers := map[string]string{"1": "A"}

	got := ByTest(2, key, answers, map[string]string{})
	if len(got) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got))
	}
	if got[0].Test != DefaultGroupLabel {
		t.Fatalf("expected default label %q, got %q", DefaultGroupLabel, got[0].Test)
	}
	assertSummary(t, got[0].Summary, 2, 1, 0, 1, 50, 1)
}

func TestByObjective(t *testing.T) {
	key := map[string]string{"1": "A", "2": "B", "3": "C", "4": "D"}
	answers := map[string]string{"1": "A", "2": "A", "3": "C"}
	subjects := map[string]string{"1": "Matematik", "2": "Matematik", "3": "Türkçe", "4": "Türkçe"}
	codes := map[string]string{"1": "M.1.1", "2": "M.1.1", "3": "T.2.4"}
	names := map[string]string{"1": "Doğal sayılar", "2": "Doğal sayılar", "3": "Paragraf"}

	got := ByObjective(4, key, answers, subjects, codes, names)

	if len(got) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(got))
	}
	if got[0].Subject != "Matematik" || got[1].Subject != "Türkçe" {
		t.Fatalf("unexpected subject order: %q, %q", got[0].Subject, got[1].Subject)
	}

	math1 := got[0].Objectives
	if len(math1) != 1 {
		t.Fatalf("expected 1 math objective, got %d", len(math1))
	}
	if math1[0].Code != "M.1.1" || math1[0].Total != 2 || math1[0].Correct != 1 {
		t.Fatalf("unexpected math objective: %+v", math1[0])
	}
	if math1[0].Percentage != 50 {
		t.Fatalf("expected 50%%, got %v", math1[0].Percentage)
	}
	if len(math1[0].Questions) != 2 || math1[0].Questions[0] != 1 || math1[0].Questions[1] != 2 {
		t.Fatalf("unexpected question list: %v", math1[0].Questions)
	}

	// Question 4 has no objective metadata and must be skipped.
	turkce := got[1].Objectives
	if len(turkce) != 1 || turkce[0].Total != 1 || turkce[0].Correct != 1 {
		t.Fatalf("unexpected turkce objectives: %+v", turkce)
	}
}

func TestByObjective_SkipsWithoutCodeOrName(t *testing.T) {
	key := map[string]string{"1": "A", "2": "B"}
	codes := map[string]string{"1": "K.1"}          // no name for 1
	names := map[string]string{"2": "Some outcome"} // no code for 2

	got := ByObjective(2, key, map[string]string{}, map[string]string{}, codes, names)
	if len(got) != 0 {
		t.Fatalf("expected no objective groups, got %+v", got)
	}
}

func assertSummary(t *testing.T, got Summary, total, correct, incorrect, empty int, percentage, net float64) {
	t.Helper()
	if got.Total != total {
		t.Fatalf("expected total=%d, got=%d", total, got.Total)
	}
	if got.Correct != correct {
		t.Fatalf("expected correct=%d, got=%d", correct, got.Correct)
	}
	if got.Incorrect != incorrect {
		t.Fatalf("expected incorrect=%d, got=%d", incorrect, got.Incorrect)
	}
	if got.Empty != empty {
		t.Fatalf("expected empty=%d, got=%d", empty, got.Empty)
	}
	if math.Abs(got.Percentage-percentage) > 1e-9 {
		t.Fatalf("expected percentage=%v, got=%v", percentage, got.Percentage)
	}
	if math.Abs(got.Net-net) > 1e-9 {
		t.Fatalf("expected net=%v, got=%v", net, got.Net)
	}
}
