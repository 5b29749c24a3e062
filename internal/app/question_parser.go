package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
)

var (
	trueFalseOptions   = []string{"True", "False"}
	placeholderOptions = []string{"A", "B", "C", "D"}
)

// FallbackQuestion is served whenever a question cannot be generated.
func FallbackQuestion() domain.Question {
	return domain.Question{
		Question:      "Error generating question.",
		Type:          domain.TrueFalse,
		Options:       append([]string(nil), trueFalseOptions...),
		CorrectAnswer: "True",
		Explanation:   "",
	}
}

// rawQuestion defers decoding options until the type is known.
type rawQuestion struct {
	domain.Question
	Options json.RawMessage `json:"options"`
}

// ParseQuestion turns raw model output into a normalised question.
// It locates the first balanced JSON object, decodes it and fixes the option list.
// Options are never a reason to reject a question: true_false always gets True/False
// and any other list that is not four strings becomes A..D.
func ParseQuestion(raw string) (domain.Question, error) {
	span, err := ExtractJSONObject(raw)
	if err != nil {
		return domain.Question{}, err
	}

	var decoded rawQuestion
	if err := json.Unmarshal([]byte(span), &decoded); err != nil {
		return domain.Question{}, fmt.Errorf("%w: %w", domain.ErrMalformedQuestion, err)
	}
	q := decoded.Question
	if !q.Type.Valid() {
		return domain.Question{}, fmt.Errorf("%w: unknown type %q", domain.ErrMalformedQuestion, q.Type)
	}

	switch q.Type {
	case domain.TrueFalse:
		q.Options = append([]string(nil), trueFalseOptions...)
	case domain.MultipleChoice, domain.MultipleAnswer:
		var options []string
		if err := json.Unmarshal(decoded.Options, &options); err != nil || len(options) != 4 {
			options = append([]string(nil), placeholderOptions...)
		}
		q.Options = options
	}
	return q, nil
}

// ExtractJSONObject returns the first balanced top-level {...} span in text.
// Braces inside JSON strings are ignored.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", domain.ErrNoJSONObject
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", domain.ErrNoJSONObject
}
