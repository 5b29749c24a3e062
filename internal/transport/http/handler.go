package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/app"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/gorilla/mux"
)

// Answerer answers one chat prompt.
type Answerer interface {
	Answer(ctx context.Context, prompt string) domain.Answer
}

// QuizMaker generates a full quiz, optionally on a fixed topic.
type QuizMaker interface {
	GenerateQuiz(ctx context.Context, topic string) []domain.Question
}

// TopicLister lists corpus topics.
type TopicLister interface {
	Topics(ctx context.Context) ([]string, error)
}

// DocumentLister lists catalogued documents.
type DocumentLister interface {
	ListDocuments(ctx context.Context) ([]domain.DocumentRecord, error)
}

// Handler serves the tutor web UI and its JSON API.
type Handler struct {
	answers      Answerer
	quizzes      QuizMaker
	topics       TopicLister
	documents    DocumentLister
	numQuestions int
	page         *template.Template
}

func NewHandler(answers Answerer, quizzes QuizMaker, topics TopicLister, numQuestions int) *Handler {
	if numQuestions <= 0 {
		numQuestions = 5
	}
	return &Handler{
		answers:      answers,
		quizzes:      quizzes,
		topics:       topics,
		numQuestions: numQuestions,
		page:         unifiedPage,
	}
}

// WithDocuments exposes the document catalog under GET /documents.
func (h *Handler) WithDocuments(documents DocumentLister) *Handler {
	h.documents = documents
	return h
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.showPage("home")).Methods("GET")
	router.HandleFunc("/chatbot", h.showPage("chatbot")).Methods("GET")
	router.HandleFunc("/quiz", h.showPage("quiz")).Methods("GET")
	router.HandleFunc("/query", h.Query).Methods("POST")
	router.HandleFunc("/query-form", h.QueryForm).Methods("POST")
	router.HandleFunc("/generate", h.Generate).Methods("POST")
	router.HandleFunc("/submit-quiz", h.SubmitQuiz).Methods("POST")
	router.HandleFunc("/api/quiz", h.GenerateJSON).Methods("POST")
	router.HandleFunc("/api/quiz/grade", h.GradeJSON).Methods("POST")
	router.HandleFunc("/topics", h.Topics).Methods("GET")
	if h.documents != nil {
		router.HandleFunc("/documents", h.Documents).Methods("GET")
	}
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
}

type queryRequest struct {
	Prompt string `json:"prompt"`
}

type quizRequest struct {
	Topic string `json:"topic"`
}

type quizResponse struct {
	Questions []domain.Question `json:"questions"`
}

type gradeRequest struct {
	Submissions []domain.Submission `json:"submissions"`
}

type gradeResponse struct {
	Results []domain.GradeResult `json:"results"`
	Score   float64              `json:"score"`
	Total   int                  `json:"total"`
}

func (h *Handler) showPage(tab string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, pageData{ActiveTab: tab})
	}
}

// Query answers a JSON chat request.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	writeJSONResponse(w, http.StatusOK, h.answers.Answer(r.Context(), req.Prompt))
}

// QueryForm answers the chatbot form and renders the page.
func (h *Handler) QueryForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if _, ok := r.PostForm["prompt"]; !ok {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}
	prompt := r.PostForm.Get("prompt")
	answer := h.answers.Answer(r.Context(), prompt)
	h.render(w, pageData{ActiveTab: "chatbot", Prompt: prompt, Response: answer.Response, Source: answer.Source})
}

// Generate renders a freshly generated quiz.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	topic := r.PostForm.Get("topic")
	quiz := h.quizzes.GenerateQuiz(r.Context(), topic)
	h.render(w, pageData{ActiveTab: "quiz", Topic: topic, Quiz: quiz})
}

// SubmitQuiz grades the round-tripped quiz form.
func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	results := gradeAll(ParseSubmissions(r.PostForm, h.numQuestions))
	h.render(w, pageData{ActiveTab: "quiz", Results: results.Results, Score: results.Score, Total: results.Total})
}

// GenerateJSON returns a generated quiz as JSON. The body is optional.
func (h *Handler) GenerateJSON(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	writeJSONResponse(w, http.StatusOK, quizResponse{Questions: h.quizzes.GenerateQuiz(r.Context(), req.Topic)})
}

// GradeJSON grades JSON submissions whose answers are strings or lists.
func (h *Handler) GradeJSON(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	writeJSONResponse(w, http.StatusOK, gradeAll(req.Submissions))
}

// Topics lists corpus topics, fuzzily filtered by ?q=.
func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topics.Topics(r.Context())
	if err != nil && !errors.Is(err, domain.ErrNoTopics) {
		log.Printf("list topics: %v", err)
		writeErrorResponse(w, http.StatusServiceUnavailable, "topics unavailable")
		return
	}
	filtered := app.FilterTopics(topics, r.URL.Query().Get("q"))
	if filtered == nil {
		filtered = []string{}
	}
	writeJSONResponse(w, http.StatusOK, map[string][]string{"topics": filtered})
}

// Documents lists the document catalog.
func (h *Handler) Documents(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.ListDocuments(r.Context())
	if err != nil {
		log.Printf("list documents: %v", err)
		writeErrorResponse(w, http.StatusServiceUnavailable, "catalog unavailable")
		return
	}
	type documentView struct {
		Name  string `json:"name"`
		Pages int    `json:"pages"`
		Topic string `json:"topic,omitempty"`
	}
	views := make([]documentView, 0, len(docs))
	for _, d := range docs {
		views = append(views, documentView{Name: d.Name, Pages: d.Pages, Topic: d.Topic})
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"documents": views})
}

func gradeAll(subs []domain.Submission) gradeResponse {
	resp := gradeResponse{Results: make([]domain.GradeResult, 0, len(subs))}
	for _, sub := range subs {
		result := app.GradeSubmission(sub)
		resp.Results = append(resp.Results, result)
		resp.Score += result.Score
	}
	resp.Total = len(resp.Results)
	return resp
}

func (h *Handler) render(w http.ResponseWriter, data pageData) {
	var buf bytes.Buffer
	if err := h.page.ExecuteTemplate(&buf, "unified.html", data); err != nil {
		log.Printf("render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, map[string]string{"error": message})
}
