// internal/resume/fields/fields.go
package fields

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resume-screening-workers/internal/models"
)

var (
	EmailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// PhonePatterns are tried in order; the whole match is the phone number.
	PhonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\+?\d{10,15}`),
	}

	yearsTextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`),
		regexp.MustCompile(`experience[:\s]+(\d+)\s*(?:years?|yrs?)`),
	}

	addressKeywords = []string{"street", "avenue", "road", "city", "state", "zip", "postal", "address"}
)

// Extracted holds every field found in one pass over CV text. Empty strings
// mean the field was not found.
type Extracted struct {
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Education         string `json:"education,omitempty"`
	WorkExperience    string `json:"workExperience,omitempty"`
	Skills            string `json:"skills,omitempty"`
	Certifications    string `json:"certifications,omitempty"`
	Languages         string `json:"languages,omitempty"`
	YearsOfExperience string `json:"yearsOfExperience,omitempty"`
	Address           string `json:"address,omitempty"`
}

// Extract pulls contact details, sections, experience and address from text.
func Extract(text string) Extracted {
	if text == "" {
		return Extracted{}
	}

	sections := Sections(text)
	return Extracted{
		Name:              GuessName(text),
		Email:             EmailPattern.FindString(text),
		Phone:             FindPhone(text),
		Education:         sections[SectionEducation],
		WorkExperience:    sections[SectionWorkExperience],
		Skills:            sections[SectionSkills],
		Certifications:    sections[SectionCertifications],
		Languages:         sections[SectionLanguages],
		YearsOfExperience: yearsOfExperienceText(text),
		Address:           findAddress(text),
	}
}

// FindPhone returns the first phone-like match, or "".
func FindPhone(text string) string {
	for _, re := range PhonePatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func yearsOfExperienceText(text string) string {
	lower := strings.ToLower(text)
	for _, re := range yearsTextPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return m[1]
		}
	}
	return ""
}

// findAddress returns the first line mentioning an address keyword plus up to
// two following non-empty lines.
func findAddress(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) >= 200 || !containsAny(strings.ToLower(line), addressKeywords) {
			continue
		}
		out := []string{trimmed}
		for j := 1; j <= 2 && i+j < len(lines); j++ {
			if next := strings.TrimSpace(lines[i+j]); next != "" {
				out = append(out, next)
			}
		}
		return strings.Join(out, "\n")
	}
	return ""
}

// GuessName picks the first plausible name among the first five lines: short,
// no digits in the first ten characters, at least one letter and no more than
// five words.
func GuessName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) >= 100 {
			continue
		}
		if hasDigit(firstRunes(line, 10)) || !hasLetter(line) || len(strings.Fields(line)) > 5 {
			continue
		}
		return line
	}
	return ""
}

// Populate copies extracted fields onto c without overwriting non-empty
// values and returns the names of the fields it filled.
func Populate(c *models.Candidate, ex Extracted) []string {
	var filled []string
	set := func(name string, dst *string, v string) {
		if v != "" && *dst == "" {
			*dst = v
			filled = append(filled, name)
		}
	}

	set("name", &c.Name, ex.Name)
	set("email", &c.Email, ex.Email)
	set("phone", &c.Phone, ex.Phone)
	set("education", &c.Education, ex.Education)
	set("work_experience", &c.WorkExperience, ex.WorkExperience)
	set("skills", &c.Skills, ex.Skills)
	set("certifications", &c.Certifications, ex.Certifications)
	set("languages", &c.Languages, ex.Languages)
	set("years_of_experience", &c.YearsOfExperience, ex.YearsOfExperience)
	set("address", &c.Address, ex.Address)
	return filled
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
