package http

import (
	"context"
	"sync"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
)

type stubAnswerer struct {
	mu      sync.Mutex
	prompts []string
}

func (a *stubAnswerer) Answer(_ context.Context, prompt string) domain.Answer {
	a.mu.Lock()
	a.prompts = append(a.prompts, prompt)
	a.mu.Unlock()
	return domain.Answer{Response: "answer to " + prompt, Source: "notes.pdf (Pg 2) — Score: 0.81"}
}

type stubQuizMaker struct {
	mu     sync.Mutex
	topics []string
}

func (q *stubQuizMaker) GenerateQuiz(_ context.Context, topic string) []domain.Question {
	q.mu.Lock()
	q.topics = append(q.topics, topic)
	q.mu.Unlock()
	return []domain.Question{
		{
			Question:      "TLS encrypts traffic.",
			Type:          domain.TrueFalse,
			Options:       []string{"True", "False"},
			CorrectAnswer: "True",
			Explanation:   "TLS provides confidentiality.",
		},
		{
			Question:       "Which are symmetric ciphers?",
			Type:           domain.MultipleAnswer,
			Options:        []string{"AES", "RSA", "ChaCha20", "ECDSA"},
			CorrectAnswers: []string{"AES", "ChaCha20"},
			Explanation:    "RSA and ECDSA are asymmetric.",
		},
	}
}

type stubTopics struct {
	topics []string
	err    error
}

func (s stubTopics) Topics(context.Context) ([]string, error) {
	return s.topics, s.err
}

type stubDocuments struct {
	docs []domain.DocumentRecord
}

func (s stubDocuments) ListDocuments(context.Context) ([]domain.DocumentRecord, error) {
	return s.docs, nil
}
