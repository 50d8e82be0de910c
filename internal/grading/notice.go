package grading

import "errors"

// Notice is the single user-visible message produced by a failed grading
// cycle.
type Notice struct {
	Title   string
	Message string
}

const unexpectedMessage = "An unexpected error occurred. Please try again."

// Classify maps an error from Grade to the notice shown to the learner.
func Classify(err error) Notice {
	switch {
	case errors.Is(err, ErrEmptyAnswer):
		return Notice{
			Title:   "Answer is empty",
			Message: "Please provide an answer before getting feedback.",
		}
	case errors.Is(err, ErrNotConfigured):
		return Notice{
			Title:   "Configuration Error",
			Message: "The backend API URL is not configured. Please set ECHOGRADE_API_URL in your environment or .env file.",
		}
	case errors.Is(err, ErrInFlight):
		return Notice{
			Title:   "Grading in progress",
			Message: "Please wait for the current answer to finish grading.",
		}
	case errors.Is(err, ErrTimeout):
		return Notice{
			Title:   "Request Timeout",
			Message: "The request took too long to complete. This might be due to high server load. Please try again.",
		}
	case errors.Is(err, ErrCancelled):
		return Notice{
			Title:   "Request Cancelled",
			Message: "The request was cancelled. Please try again.",
		}
	case err != nil && err.Error() != "":
		return Notice{Title: "Error", Message: err.Error()}
	default:
		return Notice{Title: "Error", Message: unexpectedMessage}
	}
}
