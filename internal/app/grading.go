package app

import (
	"strconv"
	"strings"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/samber/lo"
)

// NoAnswerProvided is displayed in place of an empty submission.
const NoAnswerProvided = "No answer provided"

// Grade scores one submitted answer. It never fails: malformed input grades as an empty answer.
// multiple_answer earns partial credit; every other type is an exact, case-insensitive match.
func Grade(answer, correct domain.AnswerInput, qtype domain.QuestionType, explanation string) domain.GradeResult {
	if qtype == domain.MultipleAnswer {
		return gradeMultiple(answer, correct, explanation)
	}

	answerText := strings.TrimSpace(answer.Text())
	correctText := strings.TrimSpace(correct.Text())
	ok := strings.EqualFold(answerText, correctText)

	result := domain.GradeResult{
		Correct:       ok,
		CorrectAnswer: correctText,
		UserAnswer:    answerText,
		Explanation:   explanation,
	}
	if ok {
		result.Score = 1
	}
	if answerText == "" {
		result.UserAnswer = NoAnswerProvided
	}
	return result
}

// GradeSubmission grades a round-tripped question and carries its text into the result.
func GradeSubmission(sub domain.Submission) domain.GradeResult {
	result := Grade(sub.Answer, sub.Correct, sub.Type, sub.Explanation)
	result.Question = sub.Question
	return result
}

func gradeMultiple(answer, correct domain.AnswerInput, explanation string) domain.GradeResult {
	userTokens := answer.Tokens()
	correctTokens := correct.Tokens()

	userSet := lowerSet(userTokens)
	correctSet := lowerSet(correctTokens)

	var truePositive, falsePositive int
	for token := range userSet {
		if _, ok := correctSet[token]; ok {
			truePositive++
		} else {
			falsePositive++
		}
	}
	total := float64(max(len(correctSet), 1))

	partial := round2(float64(truePositive)/total - float64(falsePositive)/total)
	if partial <= 0 {
		partial = 0
	}

	ok := len(userSet) == len(correctSet) && truePositive == len(correctSet)
	score := partial
	if ok {
		score = 1
	}

	userDisplay := strings.Join(userTokens, ", ")
	if len(userTokens) == 0 {
		userDisplay = NoAnswerProvided
	}

	return domain.GradeResult{
		Correct:       ok,
		Score:         score,
		PartialScore:  &score,
		CorrectAnswer: strings.Join(correctTokens, ", "),
		UserAnswer:    userDisplay,
		Explanation:   explanation,
	}
}

func lowerSet(tokens []string) map[string]struct{} {
	return lo.SliceToMap(tokens, func(token string) (string, struct{}) {
		return strings.ToLower(token), struct{}{}
	})
}

// round2 rounds the exact binary value to two decimals, so 0.025 (stored just
// above the tie) becomes 0.03 and a true tie such as 0.125 goes to even.
func round2(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}
