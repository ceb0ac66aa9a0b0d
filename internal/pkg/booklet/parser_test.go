package booklet

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
)

// sheet builds rows in the fixed publisher layout:
// marker | test | subject | A pos | B pos | answer | obj code | obj name
func sheet(dataRows ...[]string) [][]string {
	rows := [][]string{{"Kitapçık", "Test", "Ders", "A Soru", "B Soru", "Cevap", "Kazanım Kodu", "Kazanım Adı"}}
	return append(rows, dataRows...)
}

func mustParse(t *testing.T, rows [][]string) *Result {
	t.Helper()
	res, err := Parse(rows)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return res
}

func TestParse_CanonicalNumbering(t *testing.T) {
	// Two test groups; rows arrive out of A-booklet order within each group.
	rows := sheet(
		[]string{"X", "Türkçe Testi", "Türkçe", "2", "1", "B", "T.1", "Sözcükte anlam"},
		[]string{"X", "Türkçe Testi", "Türkçe", "1", "2", "A", "T.2", "Paragraf"},
		[]string{"X", "Matematik Testi", "Matematik", "1", "4", "C", "M.1", "Doğal sayılar"},
		[]string{"X", "Matematik Testi", "Matematik", "2", "3", "d", "", ""},
	)

	res := mustParse(t, rows)

	if res.TotalQuestions != 4 {
		t.Fatalf("expected 4 questions, got %d", res.TotalQuestions)
	}

	// Canonical 1 is the Türkçe row with A position 1, canonical 3 opens the
	// Matematik group even though its A position restarts at 1.
	wantKey := map[string]string{"1": "A", "2": "B", "3": "C", "4": "D"}
	if !reflect.DeepEqual(res.AnswerKey, wantKey) {
		t.Fatalf("unexpected answer key: %v", res.AnswerKey)
	}
	wantTests := map[string]string{"1": "Türkçe Testi", "2": "Türkçe Testi", "3": "Matematik Testi", "4": "Matematik Testi"}
	if !reflect.DeepEqual(res.QuestionTests, wantTests) {
		t.Fatalf("unexpected test map: %v", res.QuestionTests)
	}

	// Blank metadata is omitted, not stored as empty strings.
	if _, ok := res.ObjectiveCodes["4"]; ok {
		t.Fatal("expected no objective code for question 4")
	}
	if res.ObjectiveNames["2"] != "Paragraf" {
		t.Fatalf("unexpected objective name: %q", res.ObjectiveNames["2"])
	}
}

func TestParse_Deterministic(t *testing.T) {
	rows := sheet(
		[]string{"X", "T1", "D1", "3", "1", "A", "", ""},
		[]string{"X", "T1", "D1", "1", "3", "B", "", ""},
		[]string{"X", "T1", "D1", "2", "2", "C", "", ""},
	)

	first := mustParse(t, rows)
	second := mustParse(t, rows)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical results for identical input")
	}
}

func TestParse_BookletOrdersArePermutations(t *testing.T) {
	rows := sheet(
		[]string{"X", "T1", "D1", "1", "3", "A", "", ""},
		[]string{"X", "T1", "D1", "2", "1", "B", "", ""},
		[]string{"X", "T1", "D1", "3", "2", "C", "", ""},
	)

	res := mustParse(t, rows)
	if len(res.Booklets) != 2 {
		t.Fatalf("expected booklets A and B, got %v", res.Booklets)
	}

	a, b := res.Booklets[0], res.Booklets[1]
	if a.Code != "A" || b.Code != "B" {
		t.Fatalf("unexpected booklet codes: %q, %q", a.Code, b.Code)
	}
	if !reflect.DeepEqual(a.QuestionOrder, []int{1, 2, 3}) {
		t.Fatalf("unexpected A order: %v", a.QuestionOrder)
	}
	// B booklet prints canonical 2 first, then 3, then 1.
	if !reflect.DeepEqual(b.QuestionOrder, []int{2, 3, 1}) {
		t.Fatalf("unexpected B order: %v", b.QuestionOrder)
	}

	// Scoring position i of B against key[b.QuestionOrder[i]] must match
	// scoring the canonical paper directly.
	for i, canonical := range b.QuestionOrder {
		if res.AnswerKey[strconv.Itoa(canonical)] == "" {
			t.Fatalf("B position %d maps to canonical %d with no key", i+1, canonical)
		}
	}
}

func TestParse_RowWithoutBPositionExcludedFromB(t *testing.T) {
	rows := sheet(
		[]string{"X", "T1", "D1", "1", "2", "A", "", ""},
		[]string{"X", "T1", "D1", "2", "", "B", "", ""},
		[]string{"X", "T1", "D1", "3", "1", "C", "", ""},
	)

	res := mustParse(t, rows)
	if len(res.Booklets) != 2 {
		t.Fatalf("expected 2 booklets, got %v", res.Booklets)
	}
	b := res.Booklets[1]
	if !reflect.DeepEqual(b.QuestionOrder, []int{3, 1}) {
		t.Fatalf("expected B to skip the row without a position, got %v", b.QuestionOrder)
	}
}

func TestParse_SkipsInvalidRows(t *testing.T) {
	rows := sheet(
		[]string{"X", "", "D1", "1", "", "A", "", ""},  // no test label
		[]string{"X", "T1", "D1", "", "1", "B", "", ""}, // no A position
		[]string{"", "", "", "", "", "", "", ""},        // blank
		[]string{"X", "T1", "D1", "1", "", "F", "", ""}, // answer outside A-E dropped, row kept
	)

	res := mustParse(t, rows)
	if res.TotalQuestions != 1 {
		t.Fatalf("expected 1 question, got %d", res.TotalQuestions)
	}
	if len(res.AnswerKey) != 0 {
		t.Fatalf("expected empty answer key, got %v", res.AnswerKey)
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want error
	}{
		{name: "nil rows", rows: nil, want: ErrEmptySheet},
		{name: "header only", rows: [][]string{{"Kitapçık", "Test"}}, want: ErrEmptySheet},
		{
			name: "no usable rows",
			rows: sheet(
				[]string{"X", "", "", "", "", "", "", ""},
				[]string{"X", "T1", "D1", "abc", "", "A", "", ""},
			),
			want: ErrNoQuestions,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.rows)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseSimpleKey(t *testing.T) {
	rows := [][]string{
		{"Soru No", "Cevap", "Kazanım"},
		{"1", "a", "Sözcükte anlam"},
		{"2", "B", ""},
		{"3", "E", "dropped, outside A-D"},
		{"", "C", "dropped, no number"},
	}

	key, objectives, err := ParseSimpleKey(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(key, map[string]string{"1": "A", "2": "B"}) {
		t.Fatalf("unexpected key: %v", key)
	}
	if !reflect.DeepEqual(objectives, map[string]string{"1": "Sözcükte anlam"}) {
		t.Fatalf("unexpected objectives: %v", objectives)
	}
}

func TestParseSimpleKey_Empty(t *testing.T) {
	_, _, err := ParseSimpleKey([][]string{{"Soru No", "Cevap", "Kazanım"}})
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestIdentityOrder(t *testing.T) {
	if got := IdentityOrder(4); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if got := IdentityOrder(0); len(got) != 0 {
		t.Fatalf("expected empty order, got %v", got)
	}
}
