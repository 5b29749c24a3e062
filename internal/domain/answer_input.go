package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AnswerInput is a submitted answer that arrived either as a single string or as a
// list of strings. The zero value is an empty single answer.
type AnswerInput struct {
	values []string
	list   bool
}

// SingleAnswer wraps a raw string answer. For multi-select grading it is split on commas.
func SingleAnswer(s string) AnswerInput {
	return AnswerInput{values: []string{s}}
}

// ListAnswer wraps an already separated list of answers.
func ListAnswer(values []string) AnswerInput {
	return AnswerInput{values: append([]string(nil), values...), list: true}
}

// IsList reports whether the input arrived as a list.
func (a AnswerInput) IsList() bool { return a.list }

// Text returns the answer as one string. A list yields its first element.
func (a AnswerInput) Text() string {
	if len(a.values) == 0 {
		return ""
	}
	return a.values[0]
}

// Tokens returns the trimmed, non-empty answer tokens with their original casing.
// Single answers are split on commas.
func (a AnswerInput) Tokens() []string {
	var raw []string
	if a.list {
		raw = a.values
	} else if len(a.values) > 0 {
		raw = strings.Split(a.values[0], ",")
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// MarshalJSON encodes the input back in the shape it arrived in.
func (a AnswerInput) MarshalJSON() ([]byte, error) {
	if a.list {
		values := a.values
		if values == nil {
			values = []string{}
		}
		return json.Marshal(values)
	}
	return json.Marshal(a.Text())
}

// UnmarshalJSON accepts a string or an array. Non-string array elements are dropped
// and any other JSON value decodes to an empty answer.
func (a *AnswerInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = AnswerInput{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*a = SingleAnswer(s)
	case '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		values := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		*a = ListAnswer(values)
	}
	return nil
}
