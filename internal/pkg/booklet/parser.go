// Package booklet parses printed exam spreadsheets into a canonical answer
// key and per-booklet question orders. Parsing is pure and operates on rows
// of strings; reading xlsx files lives in xlsx.go.
package booklet

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Parse errors
var (
	ErrEmptySheet  = errors.New("spreadsheet is empty or invalid")
	ErrNoQuestions = errors.New("no valid question rows found")
)

// Fixed column layout of the publisher's sheet. The first column carries a
// booklet marker that is not needed for parsing.
const (
	colTest = 1 + iota
	colSubject
	colPositionA
	colPositionB
	colAnswer
	colObjectiveCode
	colObjectiveName
)

var answerLetter = regexp.MustCompile(`^[A-E]$`)

// Question is one parsed row with its assigned canonical number.
type Question struct {
	Canonical         int
	Answer            string
	Test              string
	Subject           string
	ObjectiveCode     string
	ObjectiveName     string
	PositionByBooklet map[string]int
}

// Booklet is a printed variant with its question order expressed in
// canonical numbers: QuestionOrder[i] is the canonical number printed at
// position i+1 of this variant.
type Booklet struct {
	Code          string
	QuestionOrder []int
}

// Result is the full outcome of parsing one sheet. Metadata maps are keyed
// by canonical number as a decimal string and omit blank values.
type Result struct {
	TotalQuestions   int
	AnswerKey        map[string]string
	ObjectiveNames   map[string]string
	ObjectiveCodes   map[string]string
	QuestionSubjects map[string]string
	QuestionTests    map[string]string
	Questions        []Question
	Booklets         []Booklet
}

// Parse builds the canonical exam definition from sheet rows.
//
// Rows are grouped by test label preserving first appearance, sorted within
// each group by the A-booklet position, then numbered with a single global
// counter. Rows without a test label or an A position are skipped. Answers
// are kept only when they are a single letter A through E.
func Parse(rows [][]string) (*Result, error) {
	if len(rows) < 3 {
		return nil, ErrEmptySheet
	}

	groups := make(map[string][]*Question)
	var groupOrder []string

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		test := strings.TrimSpace(cell(row, colTest))
		if test == "" {
			continue
		}

		posA, okA := readPosition(cell(row, colPositionA))
		if !okA {
			continue
		}

		q := &Question{
			Test:              test,
			Subject:           strings.TrimSpace(cell(row, colSubject)),
			ObjectiveCode:     strings.TrimSpace(cell(row, colObjectiveCode)),
			ObjectiveName:     strings.TrimSpace(cell(row, colObjectiveName)),
			PositionByBooklet: map[string]int{"A": posA},
		}
		if posB, okB := readPosition(cell(row, colPositionB)); okB {
			q.PositionByBooklet["B"] = posB
		}
		if v := strings.ToUpper(strings.TrimSpace(cell(row, colAnswer))); answerLetter.MatchString(v) {
			q.Answer = v
		}

		if _, seen := groups[test]; !seen {
			groupOrder = append(groupOrder, test)
		}
		groups[test] = append(groups[test], q)
	}

	result := &Result{
		AnswerKey:        make(map[string]string),
		ObjectiveNames:   make(map[string]string),
		ObjectiveCodes:   make(map[string]string),
		QuestionSubjects: make(map[string]string),
		QuestionTests:    make(map[string]string),
	}

	canonical := 1
	for _, test := range groupOrder {
		questions := groups[test]
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].PositionByBooklet["A"] < questions[j].PositionByBooklet["A"]
		})
		for _, q := range questions {
			q.Canonical = canonical
			canonical++
			result.Questions = append(result.Questions, *q)
		}
	}

	if len(result.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	result.TotalQuestions = len(result.Questions)

	for _, q := range result.Questions {
		n := strconv.Itoa(q.Canonical)
		if q.Answer != "" {
			result.AnswerKey[n] = q.Answer
		}
		if q.ObjectiveName != "" {
			result.ObjectiveNames[n] = q.ObjectiveName
		}
		if q.ObjectiveCode != "" {
			result.ObjectiveCodes[n] = q.ObjectiveCode
		}
		if q.Subject != "" {
			result.QuestionSubjects[n] = q.Subject
		}
		result.QuestionTests[n] = q.Test
	}

	result.Booklets = buildBooklets(result.Questions, result.TotalQuestions)
	return result, nil
}

// buildBooklets derives one booklet per variant code observed in the
// position columns. A variant's order contains only the questions that have
// a position for it. When the sheet carries no variant positions at all, a
// single identity booklet "A" is synthesized.
func buildBooklets(questions []Question, total int) []Booklet {
	codeSet := make(map[string]struct{})
	for _, q := range questions {
		for code := range q.PositionByBooklet {
			codeSet[code] = struct{}{}
		}
	}

	if len(codeSet) == 0 {
		return []Booklet{{Code: "A", QuestionOrder: IdentityOrder(total)}}
	}

	codes := make([]string, 0, len(codeSet))
	for code := range codeSet {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	booklets := make([]Booklet, 0, len(codes))
	for _, code := range codes {
		var withPos []Question
		for _, q := range questions {
			if _, ok := q.PositionByBooklet[code]; ok {
				withPos = append(withPos, q)
			}
		}
		sort.SliceStable(withPos, func(i, j int) bool {
			return withPos[i].PositionByBooklet[code] < withPos[j].PositionByBooklet[code]
		})

		order := make([]int, 0, len(withPos))
		for _, q := range withPos {
			order = append(order, q.Canonical)
		}
		if len(order) == 0 {
			order = IdentityOrder(total)
		}
		booklets = append(booklets, Booklet{Code: code, QuestionOrder: order})
	}
	return booklets
}

// ParseSimpleKey reads a plain three column answer key sheet
// (question number, answer letter, objective name). The header row is
// skipped and only answers A through D are accepted.
func ParseSimpleKey(rows [][]string) (answerKey, objectives map[string]string, err error) {
	answerKey = make(map[string]string)
	objectives = make(map[string]string)

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 3 {
			continue
		}
		num := strings.TrimSpace(row[0])
		answer := strings.ToUpper(strings.TrimSpace(row[1]))
		objective := strings.TrimSpace(row[2])

		if num == "" || answer < "A" || answer > "D" || len(answer) != 1 {
			continue
		}
		answerKey[num] = answer
		if objective != "" {
			objectives[num] = objective
		}
	}

	if len(answerKey) == 0 {
		return nil, nil, ErrNoQuestions
	}
	return answerKey, objectives, nil
}

// IdentityOrder is the question order of a booklet printed in canonical
// order: position i holds question i+1.
func IdentityOrder(total int) []int {
	order := make([]int, total)
	for i := range order {
		order[i] = i + 1
	}
	return order
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// readPosition accepts plain one to three digit integers, as printed
// position columns contain small numbers or are left blank.
func readPosition(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 3 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
