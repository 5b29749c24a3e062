package http

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
)

// ParseSubmissions reads the quiz form fields type_i, question_i, explanation_i,
// answer_i and correct_i for i in 1..n. Indexes without a type are skipped.
// For multiple_answer, answer_i may repeat and correct_i holds a JSON array.
func ParseSubmissions(form url.Values, n int) []domain.Submission {
	var subs []domain.Submission
	for i := 1; i <= n; i++ {
		qtype := form.Get(fmt.Sprintf("type_%d", i))
		if qtype == "" {
			continue
		}
		sub := domain.Submission{
			Question:    form.Get(fmt.Sprintf("question_%d", i)),
			Type:        domain.QuestionType(qtype),
			Explanation: form.Get(fmt.Sprintf("explanation_%d", i)),
		}
		answerKey := fmt.Sprintf("answer_%d", i)
		correctKey := fmt.Sprintf("correct_%d", i)
		if sub.Type == domain.MultipleAnswer {
			sub.Answer = domain.ListAnswer(form[answerKey])
			// undecodable keys grade against an empty set
			_ = json.Unmarshal([]byte(form.Get(correctKey)), &sub.Correct)
		} else {
			sub.Answer = domain.SingleAnswer(form.Get(answerKey))
			sub.Correct = domain.SingleAnswer(form.Get(correctKey))
		}
		subs = append(subs, sub)
	}
	return subs
}
