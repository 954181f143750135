// internal/models/candidate.go
package models

import (
	"strings"
	"time"
)

type CandidateStatus string

const (
	StatusPending     CandidateStatus = "pending"
	StatusContacted   CandidateStatus = "contacted"
	StatusInterviewed CandidateStatus = "interviewed"
	StatusRejected    CandidateStatus = "rejected"
	StatusHired       CandidateStatus = "hired"
)

// Valid reports whether s is one of the known candidate statuses.
func (s CandidateStatus) Valid() bool {
	switch s {
	case StatusPending, StatusContacted, StatusInterviewed, StatusRejected, StatusHired:
		return true
	}
	return false
}

type CandidateSource string

const (
	SourceWebsite   CandidateSource = "website"
	SourceLinkedIn  CandidateSource = "linkedin"
	SourceReferral  CandidateSource = "referral"
	SourceJobPortal CandidateSource = "job_portal"
	SourceOther     CandidateSource = "other"
)

// DefaultPosition is stored when an upload does not name the applied position.
const DefaultPosition = "Not Specified"

type Candidate struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	LinkedIn      string          `json:"linkedin,omitempty"`
	Position      string          `json:"position"`
	Source        CandidateSource `json:"source,omitempty"`
	JobPositionID *int64          `json:"jobPositionId,omitempty"`

	CVFilename   string     `json:"cvFilename,omitempty"`
	CVText       string     `json:"cvText,omitempty"`
	CVUploadDate *time.Time `json:"cvUploadDate,omitempty"`

	Education         string `json:"education,omitempty"`
	WorkExperience    string `json:"workExperience,omitempty"`
	Skills            string `json:"skills,omitempty"`
	Certifications    string `json:"certifications,omitempty"`
	Languages         string `json:"languages,omitempty"`
	YearsOfExperience string `json:"yearsOfExperience,omitempty"`
	Address           string `json:"address,omitempty"`

	// Free text as typed by the candidate, e.g. "50K" or "2 lakh".
	ExpectedSalary string `json:"expectedSalary,omitempty"`
	CurrentSalary  string `json:"currentSalary,omitempty"`

	ATS ATSFields `json:"ats"`

	Status    CandidateStatus `json:"status"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ATSFields is the stored outcome of the last ATS analysis. A new analysis
// replaces every field.
type ATSFields struct {
	Tier1Score               float64    `json:"tier1Score"`
	Tier2Score               float64    `json:"tier2Score"`
	OverallScore             float64    `json:"overallScore"`
	InterpretablePct         float64    `json:"interpretablePct"`
	SpellingErrors           int        `json:"spellingErrors"`
	GrammarErrors            int        `json:"grammarErrors"`
	QuantifiableAchievements int        `json:"quantifiableAchievements"`
	Tier1Breakdown           string     `json:"tier1Breakdown,omitempty"`
	Tier2Breakdown           string     `json:"tier2Breakdown,omitempty"`
	Tier2Issues              string     `json:"tier2Issues,omitempty"`
	Tier2Achievements        string     `json:"tier2Achievements,omitempty"`
	Recommendations          string     `json:"recommendations,omitempty"`
	KeywordsFound            string     `json:"keywordsFound,omitempty"`
	MissingSections          string     `json:"missingSections,omitempty"`
	AnalysisDetails          string     `json:"analysisDetails,omitempty"`
	AnalyzedAt               *time.Time `json:"analyzedAt,omitempty"`
}

// Filterable reports whether auto-filtering may still change the candidate's status.
func (c *Candidate) Filterable() bool {
	return c.Status == StatusPending || c.Status == StatusContacted
}

// HasCVText reports whether extracted text is available for analysis.
func (c *Candidate) HasCVText() bool {
	return strings.TrimSpace(c.CVText) != ""
}

// AppendNote adds note to the end of the candidate's notes.
func (c *Candidate) AppendNote(note string) {
	c.Notes += note
}

// NameFromFilename derives a display name from an uploaded file name:
// "john_doe-cv.pdf" becomes "John Doe Cv".
func NameFromFilename(filename string) string {
	base := filename
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)

	words := strings.Fields(base)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return w
	}
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
