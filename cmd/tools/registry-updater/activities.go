// cmd/tools/registry-updater/activities.go
package main

import (
	"time"

	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/validation"
	updatejobposition "resume-screening-workers/internal/workers/jobs/update-job-position"
	autofiltercandidates "resume-screening-workers/internal/workers/matching/auto-filter-candidates"
	evaluatecandidate "resume-screening-workers/internal/workers/matching/evaluate-candidate"
	notifycandidatedecision "resume-screening-workers/internal/workers/notification/notify-candidate-decision"
	exportatsreport "resume-screening-workers/internal/workers/reporting/export-ats-report"
	bulkuploadcvs "resume-screening-workers/internal/workers/resume/bulk-upload-cvs"
	extractcvdata "resume-screening-workers/internal/workers/resume/extract-cv-data"
	runatsanalysis "resume-screening-workers/internal/workers/resume/run-ats-analysis"
)

// workerActivity is what sync knows about one built-in worker.
type workerActivity struct {
	id          string
	displayName string
	description string
	category    string
	taskType    string
	schema      validation.JSONSchema
	timeout     time.Duration
	outputs     []string
	errorCodes  []errors.ErrorCode
	tags        []string
}

func builtinActivities() []workerActivity {
	common := []errors.ErrorCode{errors.ErrCodeValidationFailed, errors.ErrCodeInputParsingFailed}
	with := func(codes ...errors.ErrorCode) []errors.ErrorCode {
		return append(append([]errors.ErrorCode{}, common...), codes...)
	}

	return []workerActivity{
		{
			id:          "extract-cv-data",
			displayName: "Extract CV Data",
			description: "Fetches a candidate's CV, extracts its text and fills empty profile fields",
			category:    "resume",
			taskType:    extractcvdata.TaskType,
			schema:      extractcvdata.GetInputSchema(),
			timeout:     extractcvdata.DefaultConfig().Timeout,
			outputs: []string{"cvExtracted", "candidateId", "cvFilename", "cvFileType", "cvTextChars",
				"cvFilledFields", "candidateName", "candidateEmail", "candidatePhone", "cvExtractedAt", "cvExtractorUsed"},
			errorCodes: with(errors.ErrCodeCandidateNotFound, errors.ErrCodeDocumentFetchFailed,
				errors.ErrCodeDocumentTooLarge, errors.ErrCodeExtractionFailed),
			tags: []string{"cv", "extraction"},
		},
		{
			id:          "bulk-upload-cvs",
			displayName: "Bulk Upload CVs",
			description: "Creates one candidate per uploaded CV, then extracts, evaluates and analyses each",
			category:    "resume",
			taskType:    bulkuploadcvs.TaskType,
			schema:      bulkuploadcvs.GetInputSchema(),
			timeout:     bulkuploadcvs.DefaultConfig().Timeout,
			outputs: []string{"bulkUploadProcessed", "bulkUploadBatchId", "bulkUploadTotal", "bulkUploadCreated",
				"bulkUploadExtracted", "bulkUploadAnalyzed", "bulkUploadApproved", "bulkUploadRejected",
				"bulkUploadErrors", "createdCandidateIds", "processingLog"},
			errorCodes: with(errors.ErrCodeJobPositionNotFound),
			tags:       []string{"cv", "batch"},
		},
		{
			id:          "run-ats-analysis",
			displayName: "Run ATS Analysis",
			description: "Scores a candidate's CV text for machine readability and human quality",
			category:    "resume",
			taskType:    runatsanalysis.TaskType,
			schema:      runatsanalysis.GetInputSchema(),
			timeout:     runatsanalysis.DefaultConfig().Timeout,
			outputs: []string{"atsAnalyzed", "atsOverallScore", "atsSpellingErrors", "atsGrammarErrors",
				"atsAchievements", "atsKeywordsFound", "atsMissingSections", "atsRecommendations", "atsAnalyzedAt", "atsIndexed"},
			errorCodes: with(errors.ErrCodeCandidateNotFound, errors.ErrCodeAnalysisPrecondition),
			tags:       []string{"ats", "scoring"},
		},
		{
			id:          "evaluate-candidate",
			displayName: "Evaluate Candidate",
			description: "Compares a candidate's experience and salary with a job position's criteria",
			category:    "matching",
			taskType:    evaluatecandidate.TaskType,
			schema:      evaluatecandidate.GetInputSchema(),
			timeout:     evaluatecandidate.DefaultConfig().Timeout,
			outputs: []string{"candidateEvaluated", "candidateMatches", "experienceMatches", "salaryMatches",
				"matchReason", "matchReasons", "matchSummary", "yearsFound", "salaryFound"},
			errorCodes: with(errors.ErrCodeCandidateNotFound, errors.ErrCodeJobPositionNotFound),
			tags:       []string{"matching"},
		},
		{
			id:          "auto-filter-candidates",
			displayName: "Auto-Filter Candidates",
			description: "Applies a job position's auto-approve and auto-reject rules to one or all pending candidates",
			category:    "matching",
			taskType:    autofiltercandidates.TaskType,
			schema:      autofiltercandidates.GetInputSchema(),
			timeout:     autofiltercandidates.DefaultConfig().Timeout,
			outputs: []string{"autoFilterApplied", "autoFilterMode", "autoFilterProcessed", "autoFilterApproved",
				"autoFilterRejected", "autoFilterMessage", "autoFilterDecisions"},
			errorCodes: with(errors.ErrCodeCandidateNotFound, errors.ErrCodeJobPositionNotFound, errors.ErrCodeFilterLocked),
			tags:       []string{"matching", "auto-filter"},
		},
		{
			id:          "update-job-position",
			displayName: "Update Job Position",
			description: "Creates or edits a job position and opens, closes or cancels it",
			category:    "jobs",
			taskType:    updatejobposition.TaskType,
			schema:      updatejobposition.GetInputSchema(),
			timeout:     updatejobposition.DefaultConfig().Timeout,
			outputs: []string{"jobPositionUpdated", "jobPositionCreated", "jobPositionId", "jobPositionName",
				"jobPositionState", "positionsRemaining", "autoFilterEnabled", "jobPositionAction"},
			errorCodes: with(errors.ErrCodeJobPositionNotFound),
			tags:       []string{"jobs"},
		},
		{
			id:          "export-ats-report",
			displayName: "Export ATS Report",
			description: "Writes analysed candidates and their scores to an xlsx workbook",
			category:    "reporting",
			taskType:    exportatsreport.TaskType,
			schema:      exportatsreport.GetInputSchema(),
			timeout:     exportatsreport.DefaultConfig().Timeout,
			outputs: []string{"atsReportExported", "atsReportLocation", "atsReportCandidates",
				"atsReportAverageScore", "atsReportTopCandidate", "atsReportGeneratedAt"},
			errorCodes: with(errors.ErrCodeJobPositionNotFound, errors.ErrCodeReportExportFailed),
			tags:       []string{"reporting", "xlsx"},
		},
		{
			id:          "notify-candidate-decision",
			displayName: "Notify Candidate Decision",
			description: "Tells a candidate by e-mail or SMS that they were invited to interview or rejected",
			category:    "notification",
			taskType:    notifycandidatedecision.TaskType,
			schema:      notifycandidatedecision.GetInputSchema(),
			timeout:     notifycandidatedecision.DefaultConfig().Timeout,
			outputs: []string{"notificationStatus", "notificationChannel", "notificationMessageId",
				"notificationSentAt", "candidateDecision"},
			errorCodes: with(errors.ErrCodeCandidateNotFound, errors.ErrCodeNoRecipient, errors.ErrCodeNotificationSendFailed),
			tags:       []string{"notification", "email", "sms"},
		},
	}
}
