package grading

import (
	"bytes"
	"encoding/json"
	"time"
)

// Submission is the body of the submit request.
type Submission struct {
	QuestionID   string `json:"questionId" validate:"required"`
	QuestionText string `json:"questionText" validate:"required"`
	AnswerText   string `json:"answerText" validate:"required"`
}

// Feedback is the graded outcome produced by the service. Every field is
// optional.
type Feedback struct {
	Score              *float64 `json:"score_out_of_10,omitempty"`
	Verdict            string   `json:"verdict,omitempty"`
	Comment            string   `json:"comment,omitempty"`
	Advice             string   `json:"advice,omitempty"`
	UnmatchedEquations []string `json:"unmatched_equations,omitempty"`
}

// UnmarshalJSON decodes leniently: fields of an unexpected type are dropped
// instead of failing the whole response.
func (f *Feedback) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = Feedback{}

	var score float64
	if v, ok := raw["score_out_of_10"]; ok && !isNull(v) && json.Unmarshal(v, &score) == nil {
		f.Score = &score
	}
	f.Verdict = stringField(raw["verdict"])
	f.Comment = stringField(raw["comment"])
	f.Advice = stringField(raw["advice"])

	if v, ok := raw["unmatched_equations"]; ok {
		var items []json.RawMessage
		if json.Unmarshal(v, &items) == nil {
			for _, item := range items {
				if isNull(item) {
					continue
				}
				var s string
				if json.Unmarshal(item, &s) == nil {
					f.UnmatchedEquations = append(f.UnmatchedEquations, s)
				}
			}
		}
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

func stringField(v json.RawMessage) string {
	if v == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// HasUnmatchedEquations reports whether the unmatched equations section
// should be shown.
func (f Feedback) HasUnmatchedEquations() bool {
	return len(f.UnmatchedEquations) > 0
}

// Result is the outcome of one successful grading cycle.
type Result struct {
	AttemptID  string    `json:"attempt_id"`
	QuestionID string    `json:"question_id"`
	UserID     string    `json:"user_id"`
	Feedback   Feedback  `json:"feedback"`
	ReceivedAt time.Time `json:"received_at"`
}

// analysisResponse is the success body of the analyze endpoint. Only the
// first result is consumed.
type analysisResponse struct {
	Results []struct {
		Feedback *Feedback `json:"feedback"`
	} `json:"results"`
}

// errorResponse is the optional failure body of the analyze endpoint.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}
