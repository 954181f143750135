// internal/workers/notification/notify-candidate-decision/templates.go
package notifycandidatedecision

import (
	"fmt"
	"strings"

	"resume-screening-workers/internal/models"
)

type decisionTemplate struct {
	Email models.NotificationTemplate
	SMS   string
}

var templates = map[models.CandidateStatus]decisionTemplate{
	models.StatusInterviewed: {
		Email: models.NotificationTemplate{
			Subject: "Your application for {{position}} at {{companyName}}",
			Body: "Dear {{candidateName}},\n\n" +
				"Thank you for applying for {{position}}. We were impressed by your profile " +
				"and would like to invite you to an interview. A member of our recruiting team will " +
				"contact you shortly to arrange a time.\n\n" +
				"Kind regards,\n{{companyName}} Recruiting",
		},
		SMS: "{{companyName}}: Hi {{candidateName}}, you have been selected for an interview for {{position}}. We will contact you soon.",
	},
	models.StatusRejected: {
		Email: models.NotificationTemplate{
			Subject: "Update on your application for {{position}}",
			Body: "Dear {{candidateName}},\n\n" +
				"Thank you for your interest in {{position}} at {{companyName}}. After reviewing " +
				"your application we have decided not to move forward at this time. We will keep your " +
				"CV on file for future openings.\n\n" +
				"Kind regards,\n{{companyName}} Recruiting",
		},
		SMS: "{{companyName}}: Hi {{candidateName}}, thank you for applying for {{position}}. We will not be moving forward with your application.",
	},
}

// renderTemplate substitutes {{key}} placeholders and drops any left unresolved.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
