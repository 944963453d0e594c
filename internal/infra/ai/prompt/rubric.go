package prompt

import "fmt"

// The rubric covers 28 call parameters, each scored 1-7. The overall score
// shown to users is normalized against the full rubric even when fewer
// parameters were detected in the call.

var typeDirectives = map[string]string{
	"sales":                "Evaluate as a sales call: needs discovery, value framing, objection handling, closing attempts.",
	"service":              "Evaluate as a service call: issue understanding, empathy, resolution ownership, follow-through.",
	"appointment_setting":  "Evaluate as an appointment-setting call: qualification, scheduling push, commitment confirmation.",
	"sales_followup":       "Evaluate as a sales follow-up call: referencing prior context, advancing the deal, next-step agreement.",
	"appointment_followup": "Evaluate as an appointment follow-up call: confirming attendance, handling reschedules, reinforcing value.",
}

// System provides strict directions and the JSON schema the scorer must
// return. One object, no markdown, no commentary.
func System(analysisType string) string {
	directive, ok := typeDirectives[analysisType]
	if !ok {
		directive = "Evaluate the call against the general conversation rubric."
	}
	return fmt.Sprintf(`You are an expert call-quality analyst. %s

You must produce one valid JSON object only (no markdown, no commentary, no code fences).

Requirements:
- Score each rubric parameter you can detect in the transcript from 1 to 7.
- Cover up to 28 parameters; omit parameters the transcript gives no evidence for.
- summary.totalScore must equal the sum of all item scores.
- Each analysis item needs parameter, text (short evidence-based assessment), and score.
- strengths, improvements and recommendations are short plain-language lists.

Schema (example with empty values):
{
  "summary": {
    "totalScore": 0,
    "strengths": ["<string>"],
    "improvements": ["<string>"],
    "recommendations": ["<string>"]
  },
  "analysis": [
    {"parameter": "<string>", "text": "<string>", "score": 0}
  ]
}`, directive)
}

// User wraps the transcript into the user message.
func User(transcript string) string {
	return fmt.Sprintf("Score the following call transcript per the schema.\n\nTranscript:\n%s", transcript)
}
