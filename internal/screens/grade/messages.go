package grade

import (
	"time"

	"github.com/echograde/echograde/internal/grading"
)

// gradedMsg is sent when a grading cycle finishes, successfully or not.
type gradedMsg struct {
	Result *grading.Result
	Answer string
	Err    error
}

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time

// persistResultMsg is sent once a result has been written to history.
type persistResultMsg struct {
	ID  int64
	Err error
}
