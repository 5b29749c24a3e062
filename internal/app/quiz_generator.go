package app

import (
	"context"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultTopic is used when no topic is given and none can be sampled from the corpus.
const DefaultTopic = "network security"

// TopicSource lists the distinct topics present in the corpus.
type TopicSource interface {
	Topics(ctx context.Context) ([]string, error)
}

// QuizOptions tunes question generation.
type QuizOptions struct {
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration
	NumQuestions  int
	Concurrency   int
	FallbackTopic string
	// Pick returns a uniform index in [0, n). Defaults to math/rand.
	Pick func(n int) int
}

// QuizGenerator asks the LLM for structured questions and repairs what comes back.
type QuizGenerator struct {
	llm    Completer
	topics TopicSource
	opts   QuizOptions
}

func NewQuizGenerator(llm Completer, topics TopicSource, opts QuizOptions) *QuizGenerator {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.NumQuestions <= 0 {
		opts.NumQuestions = 5
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.FallbackTopic == "" {
		opts.FallbackTopic = DefaultTopic
	}
	if opts.Pick == nil {
		opts.Pick = rand.IntN
	}
	return &QuizGenerator{llm: llm, topics: topics, opts: opts}
}

// GenerateQuestion produces one question. A blank topic is sampled from the corpus.
// Any generation failure yields FallbackQuestion.
func (g *QuizGenerator) GenerateQuestion(ctx context.Context, topic string) domain.Question {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = g.sampleTopic(ctx)
	}
	qtype := domain.QuestionTypes[g.opts.Pick(len(domain.QuestionTypes))]
	return g.generate(ctx, topic, qtype)
}

// GenerateQuiz produces a full quiz. Questions are generated concurrently and keep their slot order.
func (g *QuizGenerator) GenerateQuiz(ctx context.Context, topic string) []domain.Question {
	questions := make([]domain.Question, g.opts.NumQuestions)

	var eg errgroup.Group
	eg.SetLimit(g.opts.Concurrency)
	for i := range questions {
		eg.Go(func() error {
			questions[i] = g.GenerateQuestion(ctx, topic)
			return nil
		})
	}
	_ = eg.Wait()
	return questions
}

func (g *QuizGenerator) generate(ctx context.Context, topic string, qtype domain.QuestionType) domain.Question {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	raw, err := g.llm.Complete(ctx, domain.CompletionRequest{
		User:        QuestionPrompt(qtype, topic),
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	})
	if err != nil {
		log.Printf("question generation failed for topic %q: %v", topic, err)
		return FallbackQuestion()
	}

	q, err := ParseQuestion(raw)
	if err != nil {
		log.Printf("discarding model output for topic %q: %v", topic, err)
		return FallbackQuestion()
	}
	return q
}

func (g *QuizGenerator) sampleTopic(ctx context.Context) string {
	if g.topics == nil {
		return g.opts.FallbackTopic
	}
	topics, err := g.topics.Topics(ctx)
	if err != nil || len(topics) == 0 {
		if err != nil {
			log.Printf("topic lookup failed: %v", err)
		}
		return g.opts.FallbackTopic
	}
	return topics[g.opts.Pick(len(topics))]
}
