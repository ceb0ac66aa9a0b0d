// Package scoring computes results for submitted exam sessions.
// All functions are pure: they take the answer key and the student's
// answers as canonical-number keyed maps and never touch the database.
package scoring

import "strconv"

// DefaultGroupLabel is used when a question carries no test or subject label.
const DefaultGroupLabel = "Genel"

// penaltyPerIncorrect is the net-score deduction for each wrong answer
// (four wrong answers cancel one correct answer).
const penaltyPerIncorrect = 0.25

// Summary holds the aggregate result of one scored answer set.
type Summary struct {
	Total      int     `json:"total"`
	Correct    int     `json:"correct"`
	Incorrect  int     `json:"incorrect"`
	Empty      int     `json:"empty"`
	Percentage float64 `json:"percentage"`
	Net        float64 `json:"net"`
}

// TestBreakdown is the summary of one test group within an exam,
// e.g. "Matematik Testi".
type TestBreakdown struct {
	Test string `json:"test"`
	Summary
}

// ObjectiveStat aggregates results for a single learning objective.
type ObjectiveStat struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Total      int     `json:"total"`
	Correct    int     `json:"correct"`
	Percentage float64 `json:"percentage"`
	Questions  []int   `json:"questions"`
}

// SubjectObjectives groups objective stats under their subject.
type SubjectObjectives struct {
	Subject    string          `json:"subject"`
	Objectives []ObjectiveStat `json:"objectives"`
}

// Summarize scores answers against the key over canonical questions 1..total.
// An answer counts as correct only when it is non-empty and equals the key;
// any other non-empty answer is incorrect. Unanswered questions are empty.
func Summarize(total int, key, answers map[string]string) Summary {
	s := Summary{Total: total}
	for i := 1; i <= total; i++ {
		q := strconv.Itoa(i)
		answer := answers[q]
		if answer == "" {
			continue
		}
		if answer == key[q] {
			s.Correct++
		} else {
			s.Incorrect++
		}
	}
	s.Empty = s.Total - s.Correct - s.Incorrect
	if s.Total > 0 {
		s.Percentage = float64(s.Correct) / float64(s.Total) * 100
	}
	s.Net = net(s.Correct, s.Incorrect)
	return s
}

// ByTest scores answers per test group. Groups appear in the order their
// first question appears in the canonical numbering, so a paper laid out as
// Turkish, Math, Science reports in that order regardless of group sizes.
func ByTest(total int, key, answers, tests map[string]string) []TestBreakdown {
	index := make(map[string]int)
	var order []string
	counts := make(map[string]*Summary)

	for i := 1; i <= total; i++ {
		q := strconv.Itoa(i)
		label := tests[q]
		if label == "" {
			label = DefaultGroupLabel
		}
		if _, seen := index[label]; !seen {
			index[label] = len(order)
			order = append(order, label)
			counts[label] = &Summary{}
		}
		s := counts[label]
		s.Total++
		answer := answers[q]
		switch {
		case answer == "":
			s.Empty++
		case answer == key[q]:
			s.Correct++
		default:
			s.Incorrect++
		}
	}

	out := make([]TestBreakdown, 0, len(order))
	for _, label := range order {
		s := *counts[label]
		if s.Total > 0 {
			s.Percentage = float64(s.Correct) / float64(s.Total) * 100
		}
		s.Net = net(s.Correct, s.Incorrect)
		out = append(out, TestBreakdown{Test: label, Summary: s})
	}
	return out
}

// ByObjective aggregates per learning objective, nested under subject.
// Questions missing either the objective code or name are skipped; subjects
// and objectives keep the order of their first question.
func ByObjective(total int, key, answers, subjects, codes, names map[string]string) []SubjectObjectives {
	subjectIndex := make(map[string]int)
	var out []SubjectObjectives
	// objective position within its subject, keyed subject + "\x00" + code + "\x00" + name
	objectiveIndex := make(map[string]int)

	for i := 1; i <= total; i++ {
		q := strconv.Itoa(i)
		code, name := codes[q], names[q]
		if code == "" || name == "" {
			continue
		}
		subject := subjects[q]
		if subject == "" {
			subject = DefaultGroupLabel
		}

		si, ok := subjectIndex[subject]
		if !ok {
			si = len(out)
			subjectIndex[subject] = si
			out = append(out, SubjectObjectives{Subject: subject})
		}

		objKey := subject + "\x00" + code + "\x00" + name
		oi, ok := objectiveIndex[objKey]
		if !ok {
			oi = len(out[si].Objectives)
			objectiveIndex[objKey] = oi
			out[si].Objectives = append(out[si].Objectives, ObjectiveStat{Code: code, Name: name})
		}

		obj := &out[si].Objectives[oi]
		obj.Total++
		obj.Questions = append(obj.Questions, i)
		if answer := answers[q]; answer != "" && answer == key[q] {
			obj.Correct++
		}
	}

	for si := range out {
		for oi := range out[si].Objectives {
			obj := &out[si].Objectives[oi]
			if obj.Total > 0 {
				obj.Percentage = float64(obj.Correct) / float64(obj.Total) * 100
			}
		}
	}
	return out
}

func net(correct, incorrect int) float64 {
	return float64(correct) - penaltyPerIncorrect*float64(incorrect)
}
