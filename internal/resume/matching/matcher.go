// internal/resume/matching/matcher.go
package matching

import (
	"fmt"
	"strings"

	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume/fields"
)

// Resolver looks up a numeric candidate attribute. ok is false when the value
// cannot be determined.
type Resolver func(c *models.Candidate) (float64, bool)

// MatchResult is the verdict of one candidate against one job's criteria.
type MatchResult struct {
	Matches           bool `json:"matches"`
	ExperienceMatches bool `json:"experienceMatches"`
	SalaryMatches     bool `json:"salaryMatches"`
	SalaryRequired    bool `json:"salaryRequired"`

	YearsFound  *float64 `json:"yearsFound"`
	SalaryFound *float64 `json:"salaryFound"`

	MinExperienceRequired float64 `json:"minExperienceRequired"`
	MaxExperienceRequired float64 `json:"maxExperienceRequired"`
	MinSalaryRequired     float64 `json:"minSalaryRequired"`
	MaxSalaryRequired     float64 `json:"maxSalaryRequired"`

	Reasons []string `json:"reasons"`
	Reason  string   `json:"reason"`
}

// Matcher compares candidate experience and salary with job criteria.
// Unresolved values never match.
type Matcher struct {
	years  Resolver
	salary Resolver
}

func NewMatcher() *Matcher {
	return &Matcher{years: fields.CandidateYears, salary: fields.CandidateSalary}
}

// NewMatcherWithResolvers replaces the default lookups.
func NewMatcherWithResolvers(years, salary Resolver) *Matcher {
	m := NewMatcher()
	if years != nil {
		m.years = years
	}
	if salary != nil {
		m.salary = salary
	}
	return m
}

// Evaluate does not modify job or c.
func (m *Matcher) Evaluate(job *models.JobPosition, c *models.Candidate) MatchResult {
	res := MatchResult{
		SalaryRequired:        job.SalaryRequired(),
		MinExperienceRequired: job.MinExperienceYears,
		MaxExperienceRequired: job.MaxExperienceYears,
		MinSalaryRequired:     job.MinSalary,
		MaxSalaryRequired:     job.MaxSalary,
		Reasons:               []string{},
	}

	res.ExperienceMatches, res.YearsFound = m.matchExperience(job, c)
	res.SalaryMatches, res.SalaryFound = m.matchSalary(job, c)
	res.Matches = res.ExperienceMatches && res.SalaryMatches

	switch y := res.YearsFound; {
	case y == nil:
		res.Reasons = append(res.Reasons, "Could not determine candidate experience from CV")
	case !res.ExperienceMatches:
		if *y < job.MinExperienceYears {
			res.Reasons = append(res.Reasons, fmt.Sprintf("Experience too low: %s years (required: %s+)",
				FormatYears(*y), FormatYears(job.MinExperienceYears)))
		} else if job.MaxExperienceYears > 0 && *y > job.MaxExperienceYears {
			res.Reasons = append(res.Reasons, fmt.Sprintf("Experience too high: %s years (max: %s)",
				FormatYears(*y), FormatYears(job.MaxExperienceYears)))
		}
	default:
		res.Reasons = append(res.Reasons, fmt.Sprintf("✓ Experience matches: %s years", FormatYears(*y)))
	}

	if res.SalaryRequired {
		switch s := res.SalaryFound; {
		case s == nil:
			res.Reasons = append(res.Reasons, "Could not determine candidate salary from CV")
		case !res.SalaryMatches:
			if job.MinSalary > 0 && *s < job.MinSalary {
				res.Reasons = append(res.Reasons, fmt.Sprintf("Salary too low: %s (required: %s+)",
					FormatAmount(*s), FormatAmount(job.MinSalary)))
			} else if job.MaxSalary > 0 && *s > job.MaxSalary {
				res.Reasons = append(res.Reasons, fmt.Sprintf("Salary too high: %s (max: %s)",
					FormatAmount(*s), FormatAmount(job.MaxSalary)))
			}
		default:
			res.Reasons = append(res.Reasons, fmt.Sprintf("✓ Salary matches: %s", FormatAmount(*s)))
		}
	}

	res.Reason = strings.Join(res.Reasons, " | ")
	return res
}

func (m *Matcher) matchExperience(job *models.JobPosition, c *models.Candidate) (bool, *float64) {
	years, ok := m.years(c)
	if !ok {
		return false, nil
	}
	matchesMin := years >= job.MinExperienceYears
	matchesMax := job.MaxExperienceYears == 0 || years <= job.MaxExperienceYears
	return matchesMin && matchesMax, &years
}

// matchSalary is vacuously true when the job sets no salary bound.
func (m *Matcher) matchSalary(job *models.JobPosition, c *models.Candidate) (bool, *float64) {
	if !job.SalaryRequired() {
		return true, nil
	}
	salary, ok := m.salary(c)
	if !ok {
		return false, nil
	}
	matchesMin := job.MinSalary == 0 || salary >= job.MinSalary
	matchesMax := job.MaxSalary == 0 || salary <= job.MaxSalary
	return matchesMin && matchesMax, &salary
}

// Summary renders the verdict for a person reading it.
func (r MatchResult) Summary() string {
	var sb strings.Builder

	if r.Matches {
		sb.WriteString("✓ Candidate MATCHES all requirements!\n\n")
		if r.YearsFound != nil {
			fmt.Fprintf(&sb, "Experience: %s years ✓\n", FormatYears(*r.YearsFound))
		}
		if r.SalaryFound != nil {
			fmt.Fprintf(&sb, "Salary: %s ✓\n", FormatAmount(*r.SalaryFound))
		}
		return strings.TrimRight(sb.String(), "\n")
	}

	sb.WriteString("✗ Candidate does NOT match requirements\n\n")
	if r.YearsFound != nil {
		fmt.Fprintf(&sb, "Experience: %s years %s\n  Required: %s", FormatYears(*r.YearsFound),
			checkMark(r.ExperienceMatches), FormatYears(r.MinExperienceRequired))
		if r.MaxExperienceRequired > 0 {
			fmt.Fprintf(&sb, " - %s years\n", FormatYears(r.MaxExperienceRequired))
		} else {
			sb.WriteString("+ years\n")
		}
	}

	if r.SalaryFound != nil || r.SalaryRequired {
		found := "Not found"
		if r.SalaryFound != nil {
			found = FormatAmount(*r.SalaryFound)
		}
		fmt.Fprintf(&sb, "Salary: %s %s", found, checkMark(r.SalaryMatches))
		if r.SalaryRequired {
			sb.WriteString("\n  Required: ")
			if r.MinSalaryRequired > 0 {
				sb.WriteString(FormatAmount(r.MinSalaryRequired) + "+")
			}
			if r.MaxSalaryRequired > 0 {
				sb.WriteString(" up to " + FormatAmount(r.MaxSalaryRequired))
			}
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nReasons:\n%s", r.Reason)
	return sb.String()
}

func checkMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
