package http

import (
	"embed"
	"encoding/json"
	"html/template"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
)

//go:embed templates/unified.html
var templateFS embed.FS

var unifiedPage = template.Must(template.New("unified.html").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"toJSON": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}).ParseFS(templateFS, "templates/unified.html"))

// pageData feeds the single page that hosts the home, chatbot and quiz tabs.
type pageData struct {
	ActiveTab string

	Prompt   string
	Response string
	Source   string

	Topic   string
	Quiz    []domain.Question
	Results []domain.GradeResult
	Score   float64
	Total   int
}
