package question

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Question is the prompt shown to the learner. It is fixed for the lifetime
// of a session.
type Question struct {
	ID    string `yaml:"id"`
	Text  string `yaml:"text"`
	Topic string `yaml:"topic"`
}

// Default returns the built-in question used when no question file is given.
func Default() Question {
	return Question{
		ID: "q101",
		Text: "In a right-angled triangle, the square of the hypotenuse is equal to the sum of " +
			"the squares of the other two sides. i.e.If the triangle has sides AB, BC, and " +
			"hypotenuse AC, then: AC^2 = AB^2 + BC^2. State the proof of Pythagoras' Theorem " +
			"using similar triangle proof",
		Topic: "Mathematical Proofs",
	}
}

// Validate reports whether the question has the fields a grading cycle needs.
func (q Question) Validate() error {
	var errs []error
	if strings.TrimSpace(q.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, errors.New("text is required"))
	}
	return errors.Join(errs...)
}

// Parse decodes a YAML question document.
func Parse(data []byte) (Question, error) {
	var q Question
	if err := yaml.Unmarshal(data, &q); err != nil {
		return Question{}, fmt.Errorf("parse question: %w", err)
	}
	q.ID = strings.TrimSpace(q.ID)
	q.Topic = strings.TrimSpace(q.Topic)
	if err := q.Validate(); err != nil {
		return Question{}, fmt.Errorf("invalid question: %w", err)
	}
	return q, nil
}

// Load reads a question from a YAML file. An empty path yields Default().
func Load(path string) (Question, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Question{}, fmt.Errorf("read question file: %w", err)
	}
	return Parse(data)
}
