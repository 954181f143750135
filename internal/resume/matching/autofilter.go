// internal/resume/matching/autofilter.go
package matching

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
)

// Action is what the auto filter did to one candidate.
type Action string

const (
	ActionApproved    Action = "approved"
	ActionRejected    Action = "rejected"
	ActionMatchNoSlot Action = "match_no_slot"
	ActionNone        Action = "none"
	ActionSkipped     Action = "skipped"
)

const (
	noSlotNote       = "\n[Note] Matches criteria but all positions are filled"
	defaultRejection = "Does not match requirements"
)

// SlotPool guards the number of positions still open during a filter run.
type SlotPool struct {
	mu        sync.Mutex
	remaining int
}

func NewSlotPool(remaining int) *SlotPool {
	if remaining < 0 {
		remaining = 0
	}
	return &SlotPool{remaining: remaining}
}

// Reserve takes one slot if any is left.
func (p *SlotPool) Reserve() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.remaining <= 0 {
		return false
	}
	p.remaining--
	return true
}

func (p *SlotPool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining
}

// FilterOutcome records the decision for one candidate.
type FilterOutcome struct {
	CandidateID int64                  `json:"candidateId"`
	Action      Action                 `json:"action"`
	StatusFrom  models.CandidateStatus `json:"statusFrom"`
	StatusTo    models.CandidateStatus `json:"statusTo"`
	Note        string                 `json:"note,omitempty"`
	SkipReason  string                 `json:"skipReason,omitempty"`
	Match       *MatchResult           `json:"match,omitempty"`
}

// Changed reports whether the candidate record was modified.
func (o FilterOutcome) Changed() bool {
	return o.Note != "" || o.StatusFrom != o.StatusTo
}

// FilterSummary totals a batch run.
type FilterSummary struct {
	Processed int             `json:"processed"`
	Approved  int             `json:"approved"`
	Rejected  int             `json:"rejected"`
	Outcomes  []FilterOutcome `json:"outcomes"`
}

func (s FilterSummary) Message() string {
	return fmt.Sprintf("Processed %d candidates: %d approved, %d rejected", s.Processed, s.Approved, s.Rejected)
}

// Engine applies matcher verdicts to candidate status.
type Engine struct {
	matcher *Matcher
	log     logger.Logger
}

func NewEngine(matcher *Matcher, log logger.Logger) *Engine {
	if matcher == nil {
		matcher = NewMatcher()
	}
	return &Engine{matcher: matcher, log: logger.OrNop(log)}
}

// FilterOne evaluates a single candidate, typically right after its CV was
// processed. Candidates outside the job's scope are skipped untouched.
func (e *Engine) FilterOne(job *models.JobPosition, c *models.Candidate) FilterOutcome {
	if reason := skipReason(job, c); reason != "" {
		return FilterOutcome{CandidateID: c.ID, Action: ActionSkipped, StatusFrom: c.Status, StatusTo: c.Status, SkipReason: reason}
	}
	return e.apply(job, c, NewSlotPool(job.PositionsRemaining()))
}

// FilterBatch evaluates every pending or contacted candidate in ascending ID
// order. Approvals within the run draw from one slot pool. A job that is not
// open yields an empty summary.
func (e *Engine) FilterBatch(job *models.JobPosition, candidates []*models.Candidate) (*FilterSummary, error) {
	if !job.AutoFilterEnabled() {
		return nil, models.NewValidationError("Please enable at least one auto-filtering option.")
	}
	if !job.IsOpen() {
		e.log.Info("Auto-filter batch skipped", map[string]interface{}{
			"jobPositionId": job.ID,
			"state":         string(job.State),
			"reason":        "job position is not open",
		})
		return &FilterSummary{Outcomes: []FilterOutcome{}}, nil
	}

	eligible := make([]*models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Filterable() {
			eligible = append(eligible, c)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })

	pool := NewSlotPool(job.PositionsRemaining())
	summary := &FilterSummary{Outcomes: make([]FilterOutcome, 0, len(eligible))}

	for _, c := range eligible {
		out := e.apply(job, c, pool)
		switch out.Action {
		case ActionApproved:
			summary.Approved++
		case ActionRejected:
			summary.Rejected++
		}
		summary.Processed++
		summary.Outcomes = append(summary.Outcomes, out)
	}

	e.log.Info("Auto-filter batch complete", map[string]interface{}{
		"jobPositionId": job.ID,
		"processed":     summary.Processed,
		"approved":      summary.Approved,
		"rejected":      summary.Rejected,
		"slotsLeft":     pool.Remaining(),
	})
	return summary, nil
}

func skipReason(job *models.JobPosition, c *models.Candidate) string {
	switch {
	case !job.IsOpen():
		return "job position is not open"
	case !job.AutoFilterEnabled():
		return "auto-filtering is disabled"
	case !c.Filterable():
		return "candidate status is " + string(c.Status)
	}
	return ""
}

func (e *Engine) apply(job *models.JobPosition, c *models.Candidate, pool *SlotPool) FilterOutcome {
	m := e.matcher.Evaluate(job, c)
	out := FilterOutcome{CandidateID: c.ID, Action: ActionNone, StatusFrom: c.Status, Match: &m}

	switch {
	case m.Matches && job.AutoApproveMatching:
		if pool.Reserve() {
			out.Action = ActionApproved
			out.Note = "\n[Auto-approved] Matches requirements (" + strings.Join(approvalParts(m), ", ") + ")"
			c.Status = models.StatusInterviewed
		} else {
			out.Action = ActionMatchNoSlot
			out.Note = noSlotNote
		}
	case !m.Matches && job.AutoRejectNonMatching:
		reason := strings.Join(rejectionReasons(job, m), " | ")
		if reason == "" {
			reason = defaultRejection
		}
		out.Action = ActionRejected
		out.Note = "\n[Auto-rejected] " + reason
		c.Status = models.StatusRejected
	}

	c.AppendNote(out.Note)
	out.StatusTo = c.Status

	if out.Action != ActionNone {
		e.log.Info("Auto-filter decision", map[string]interface{}{
			"candidateId":   c.ID,
			"jobPositionId": job.ID,
			"action":        string(out.Action),
			"reason":        m.Reason,
		})
	}
	return out
}

func approvalParts(m MatchResult) []string {
	var parts []string
	if m.ExperienceMatches && m.YearsFound != nil {
		parts = append(parts, "Experience: "+FormatYears(*m.YearsFound)+" years")
	}
	if m.SalaryMatches && m.SalaryFound != nil {
		parts = append(parts, "Salary: "+FormatAmount(*m.SalaryFound))
	}
	return parts
}

func rejectionReasons(job *models.JobPosition, m MatchResult) []string {
	var reasons []string

	if !m.ExperienceMatches {
		switch y := m.YearsFound; {
		case y == nil:
			reasons = append(reasons, "Could not determine experience")
		case *y < job.MinExperienceYears:
			reasons = append(reasons, fmt.Sprintf("Experience too low (%s years, required: %s+)",
				FormatYears(*y), FormatYears(job.MinExperienceYears)))
		case job.MaxExperienceYears > 0 && *y > job.MaxExperienceYears:
			reasons = append(reasons, fmt.Sprintf("Experience too high (%s years, max: %s)",
				FormatYears(*y), FormatYears(job.MaxExperienceYears)))
		}
	}

	if job.SalaryRequired() && !m.SalaryMatches {
		switch s := m.SalaryFound; {
		case s == nil:
			reasons = append(reasons, "Could not determine salary")
		case job.MinSalary > 0 && *s < job.MinSalary:
			reasons = append(reasons, fmt.Sprintf("Salary too low (%s, required: %s+)",
				FormatAmount(*s), FormatAmount(job.MinSalary)))
		case job.MaxSalary > 0 && *s > job.MaxSalary:
			reasons = append(reasons, fmt.Sprintf("Salary too high (%s, max: %s)",
				FormatAmount(*s), FormatAmount(job.MaxSalary)))
		}
	}
	return reasons
}
