package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/invopop/jsonschema"
)

type trueFalseShape struct {
	Question      string   `json:"question" jsonschema:"description=The statement to judge"`
	Type          string   `json:"type" jsonschema:"enum=true_false"`
	Options       []string `json:"options" jsonschema:"minItems=2,maxItems=2"`
	CorrectAnswer string   `json:"correct_answer" jsonschema:"enum=True,enum=False"`
	Explanation   string   `json:"explanation"`
}

type multipleChoiceShape struct {
	Question      string   `json:"question"`
	Type          string   `json:"type" jsonschema:"enum=multiple_choice"`
	Options       []string `json:"options" jsonschema:"minItems=4,maxItems=4"`
	CorrectAnswer string   `json:"correct_answer" jsonschema:"description=Exact text of the correct option"`
	Explanation   string   `json:"explanation"`
}

type multipleAnswerShape struct {
	Question       string   `json:"question"`
	Type           string   `json:"type" jsonschema:"enum=multiple_answer"`
	Options        []string `json:"options" jsonschema:"minItems=4,maxItems=4"`
	CorrectAnswers []string `json:"correct_answers" jsonschema:"minItems=1,description=Exact texts of every correct option"`
	Explanation    string   `json:"explanation"`
}

var questionSchemas = sync.OnceValue(func() map[domain.QuestionType]string {
	return map[domain.QuestionType]string{
		domain.TrueFalse:      reflectSchema[trueFalseShape](),
		domain.MultipleChoice: reflectSchema[multipleChoiceShape](),
		domain.MultipleAnswer: reflectSchema[multipleAnswerShape](),
	}
})

func reflectSchema[T any]() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// QuestionPrompt builds the strict single-object instruction for one question.
func QuestionPrompt(qtype domain.QuestionType, topic string) string {
	var b strings.Builder
	b.WriteString("You are a cybersecurity exam expert.\n")
	fmt.Fprintf(&b, "Generate ONE question of type %q on topic %q.\n", qtype, topic)
	b.WriteString("Reply in VALID JSON ONLY.\n\n")
	b.WriteString("RULES:\n")
	b.WriteString(`True/False JSON:
{"question": "...", "type": "true_false", "options": ["True", "False"], "correct_answer": "True" or "False", "explanation": "..."}

Multiple Choice JSON:
{"question": "...", "type": "multiple_choice", "options": ["A", "B", "C", "D"], "correct_answer": "<exact option text>", "explanation": "..."}

Multiple Answer JSON:
{"question": "...", "type": "multiple_answer", "options": ["A", "B", "C", "D"], "correct_answers": ["...", "..."], "explanation": "..."}
`)
	if schema, ok := questionSchemas()[qtype]; ok {
		fmt.Fprintf(&b, "\nThe object MUST validate against this JSON schema:\n%s\n", schema)
	}
	b.WriteString("\nIMPORTANT:\n- OUTPUT JSON ONLY.\n- No markdown.\n- No text outside JSON.\n")
	return b.String()
}
