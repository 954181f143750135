// internal/resume/fields/numeric.go
package fields

import (
	"regexp"
	"strconv"
	"strings"

	"resume-screening-workers/internal/models"
)

// strategy is one pattern in an ordered extraction list. parse turns a match
// into a value or rejects it.
type strategy struct {
	name  string
	re    *regexp.Regexp
	parse func(m []string) (float64, bool)
}

// firstMatch runs strategies in order and returns the first accepted value.
func firstMatch(strategies []strategy, text string) (float64, string, bool) {
	for _, s := range strategies {
		for _, m := range s.re.FindAllStringSubmatch(text, -1) {
			if v, ok := s.parse(m); ok {
				return v, s.name, true
			}
		}
	}
	return 0, "", false
}

func parseGroup(m []string) (float64, bool) {
	v, err := strconv.ParseFloat(m[1], 64)
	return v, err == nil
}

var yearsStrategies = []strategy{
	{"years-of-experience", regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`), parseGroup},
	{"experience-label", regexp.MustCompile(`experience[:\s]+(\d+(?:\.\d+)?)\s*(?:years?|yrs?)`), parseGroup},
	{"years-plus", regexp.MustCompile(`(\d+(?:\.\d+)?)\+?\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`), parseGroup},
	{"bare-years", regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:years?|yrs?)`), parseGroup},
}

// YearsFromText finds a years-of-experience figure in free text.
func YearsFromText(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	v, _, ok := firstMatch(yearsStrategies, strings.ToLower(text))
	return v, ok
}

var leadingNumber = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// CandidateYears resolves experience from the explicit field, then the work
// experience section, then the whole CV. The first source that yields a
// number wins.
func CandidateYears(c *models.Candidate) (float64, bool) {
	if c.YearsOfExperience != "" {
		if m := leadingNumber.FindStringSubmatch(c.YearsOfExperience); m != nil {
			if v, ok := parseGroup(m); ok {
				return v, true
			}
		}
	}
	if v, ok := YearsFromText(c.WorkExperience); ok {
		return v, true
	}
	return YearsFromText(c.CVText)
}

const (
	currency = `(?:[$€£₹]|rs\.?|inr|usd|eur|gbp)?\s*`
	amount   = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`
	unit     = `\s*(k|thousand|lakhs?|lacs?|l|million|mn|m)\b`
)

var salaryStrategies = []strategy{
	{"expected-salary", regexp.MustCompile(`(?i)expected\s+salary[:\s]*` + currency + amount + `(?:` + unit + `)?`), parseSalary},
	{"current-salary", regexp.MustCompile(`(?i)current\s+salary[:\s]*` + currency + amount + `(?:` + unit + `)?`), parseSalary},
	{"salary-label", regexp.MustCompile(`(?i)salary[:\s]+` + currency + amount + `(?:` + unit + `)?`), parseSalary},
	{"amount-with-unit", regexp.MustCompile(`(?i)` + currency + amount + unit), parseSalary},
	{"currency-amount", regexp.MustCompile(`(?i)(?:[$€£₹]|\brs\.?|\binr|\busd|\beur|\bgbp)\s*` + amount), parseSalary},
	{"bare-amount", regexp.MustCompile(amount), parseSalary},
}

// SalaryFromText finds a salary figure in free text. Thousands separators are
// stripped and a unit suffix scales the amount: k/thousand by 1,000, l/lakh
// by 100,000 and m/million by 1,000,000.
func SalaryFromText(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	v, _, ok := firstMatch(salaryStrategies, text)
	return v, ok
}

func parseSalary(m []string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if len(m) > 2 {
		v *= unitMultiplier(m[2])
	}
	return v, true
}

func unitMultiplier(u string) float64 {
	switch strings.ToLower(u) {
	case "k", "thousand":
		return 1e3
	case "l", "lakh", "lakhs", "lac", "lacs":
		return 1e5
	case "m", "mn", "million":
		return 1e6
	default:
		return 1
	}
}

// CandidateSalary resolves salary from the expected salary field, then the CV
// text.
func CandidateSalary(c *models.Candidate) (float64, bool) {
	if v, ok := SalaryFromText(c.ExpectedSalary); ok {
		return v, true
	}
	return SalaryFromText(c.CVText)
}
