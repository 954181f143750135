// internal/resume/fields/sections.go
package fields

import (
	"strings"
	"unicode/utf8"
)

// Section names a résumé block collected by the line reducer.
type Section string

const (
	SectionEducation      Section = "education"
	SectionWorkExperience Section = "work_experience"
	SectionSkills         Section = "skills"
	SectionCertifications Section = "certifications"
	SectionLanguages      Section = "languages"
)

// sectionKeywords is checked in order; the first section with a keyword in a
// line claims it as a header.
var sectionKeywords = []struct {
	section  Section
	keywords []string
}{
	{SectionEducation, []string{"education", "academic", "qualification", "degree", "university", "college"}},
	{SectionWorkExperience, []string{"experience", "employment", "work history", "professional experience", "career"}},
	{SectionSkills, []string{"skills", "technical skills", "competencies", "abilities", "expertise"}},
	{SectionCertifications, []string{"certification", "certificate", "license", "credentials"}},
	{SectionLanguages, []string{"language", "languages", "linguistic"}},
}

const maxHeaderLen = 100

// headerSection returns the section line opens, if any.
func headerSection(line string) (Section, bool) {
	trimmed := strings.TrimSpace(line)
	if utf8.RuneCountInString(trimmed) >= maxHeaderLen {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	for _, s := range sectionKeywords {
		if containsAny(lower, s.keywords) {
			return s.section, true
		}
	}
	return "", false
}

// sectionReducer folds lines into section bodies. A header line opens a
// section and is not stored; non-empty lines accumulate under the open
// section; the open section is flushed when the next header arrives and at
// the end of input. A section seen twice keeps its last non-empty body.
type sectionReducer struct {
	current Section
	buf     []string
	out     map[Section]string
}

func newSectionReducer() *sectionReducer {
	return &sectionReducer{out: make(map[Section]string)}
}

func (r *sectionReducer) feed(line string) {
	if s, ok := headerSection(line); ok {
		r.flush()
		r.current = s
		return
	}
	if r.current == "" {
		return
	}
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		r.buf = append(r.buf, trimmed)
	}
}

func (r *sectionReducer) flush() {
	if r.current != "" && len(r.buf) > 0 {
		r.out[r.current] = strings.Join(r.buf, "\n")
	}
	r.buf = nil
}

func (r *sectionReducer) finish() map[Section]string {
	r.flush()
	r.current = ""
	return r.out
}

// Sections splits text into the five known résumé sections.
func Sections(text string) map[Section]string {
	r := newSectionReducer()
	for _, line := range strings.Split(text, "\n") {
		r.feed(line)
	}
	return r.finish()
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
