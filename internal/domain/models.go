package domain

// QuestionType tags the variant of a generated quiz question.
type QuestionType string

const (
	TrueFalse      QuestionType = "true_false"
	MultipleChoice QuestionType = "multiple_choice"
	MultipleAnswer QuestionType = "multiple_answer"
)

// QuestionTypes lists every supported variant in a stable order.
var QuestionTypes = []QuestionType{TrueFalse, MultipleChoice, MultipleAnswer}

// Valid reports whether t is one of the supported variants.
func (t QuestionType) Valid() bool {
	switch t {
	case TrueFalse, MultipleChoice, MultipleAnswer:
		return true
	}
	return false
}

// Hit is one raw nearest-neighbour match returned by a vector store.
type Hit struct {
	Payload map[string]any
	Score   float64
}

// Point is a vector plus payload to be written into a vector store.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// RetrievedPassage is a store hit mapped into the fields the answer pipeline uses.
type RetrievedPassage struct {
	DocumentName  string  `json:"document_name"`
	PageNumber    int     `json:"page_number"`
	ReferenceText string  `json:"reference_text"`
	Similarity    float64 `json:"similarity"`
}

// Answer is the result of one chat query: the reply and where it came from.
type Answer struct {
	Response string `json:"response"`
	Source   string `json:"source"`
}

// SearchResult is one organic web search result.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// CompletionRequest is a single prompt/response exchange with an LLM.
// System may be empty, in which case only the user message is sent.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Question is a generated quiz question. CorrectAnswer is set for true_false and
// multiple_choice, CorrectAnswers for multiple_answer.
type Question struct {
	Question       string       `json:"question"`
	Type           QuestionType `json:"type"`
	Options        []string     `json:"options"`
	CorrectAnswer  string       `json:"correct_answer,omitempty"`
	CorrectAnswers []string     `json:"correct_answers,omitempty"`
	Explanation    string       `json:"explanation"`
}

// Submission is one answered question as sent back by a client.
type Submission struct {
	Question    string       `json:"question"`
	Type        QuestionType `json:"type"`
	Explanation string       `json:"explanation"`
	Answer      AnswerInput  `json:"answer"`
	Correct     AnswerInput  `json:"correct"`
}

// GradeResult is the outcome of grading one submission.
// PartialScore is only set for multiple_answer questions.
type GradeResult struct {
	Question      string   `json:"question,omitempty"`
	Correct       bool     `json:"correct"`
	Score         float64  `json:"score"`
	PartialScore  *float64 `json:"partial_score,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	UserAnswer    string   `json:"user_answer"`
	Explanation   string   `json:"explanation"`
}

// DocumentRecord describes an ingested document in the catalog.
type DocumentRecord struct {
	Name  string
	Pages int
	Topic string
}
