package question

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	q := Default()
	assert.Equal(t, "q101", q.ID)
	assert.Equal(t, "Mathematical Proofs", q.Topic)
	assert.Equal(t, "In a right-angled triangle, the square of the hypotenuse is equal to the sum of the squares of the other two sides. i.e.If the triangle has sides AB, BC, and hypotenuse AC, then: AC^2 = AB^2 + BC^2. State the proof of Pythagoras' Theorem using similar triangle proof", q.Text)
	assert.NoError(t, q.Validate())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Question
		wantErr string
	}{
		{
			name:  "full document",
			input: "id: q7\ntopic: Algebra\ntext: Solve x^2 = 4\n",
			want:  Question{ID: "q7", Topic: "Algebra", Text: "Solve x^2 = 4"},
		},
		{
			name:  "topic optional",
			input: "id: q8\ntext: Prove it\n",
			want:  Question{ID: "q8", Text: "Prove it"},
		},
		{
			name:    "missing id",
			input:   "text: Prove it\n",
			wantErr: "id is required",
		},
		{
			name:    "missing text",
			input:   "id: q9\n",
			wantErr: "text is required",
		},
		{
			name:    "not yaml",
			input:   "id: [unterminated",
			wantErr: "parse question",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		q, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), q)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "q.yaml")
		require.NoError(t, os.WriteFile(path, []byte("id: q2\ntext: Define a prime\ntopic: Number Theory\n"), 0o600))

		q, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "q2", q.ID)
		assert.Equal(t, "Number Theory", q.Topic)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
