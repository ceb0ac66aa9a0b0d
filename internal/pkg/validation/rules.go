package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Single answer letter, the only marks a student can bubble in
	AnswerLetterPattern = `^[A-E]$`

	// Booklet variant code printed on the cover
	BookletCodePattern = `^[A-E]$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	AnswerLetter *regexp.Regexp
	BookletCode  *regexp.Regexp
}{
	AnswerLetter: regexp.MustCompile(AnswerLetterPattern),
	BookletCode:  regexp.MustCompile(BookletCodePattern),
}

// IsAnswerLetter reports whether s is a valid single answer letter A-E.
func IsAnswerLetter(s string) bool {
	return CompiledPatterns.AnswerLetter.MatchString(s)
}

// IsBookletCode reports whether s is a valid booklet variant code.
func IsBookletCode(s string) bool {
	return CompiledPatterns.BookletCode.MatchString(s)
}
