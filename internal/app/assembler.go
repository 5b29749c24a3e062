package app

import (
	"fmt"
	"strings"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
	"github.com/samber/lo"
)

// Grounding is the context block handed to the LLM and the provenance shown to the user.
type Grounding struct {
	Context    string
	Provenance string
}

// Assemble builds the grounding block and provenance lines from passages, keeping their order.
func Assemble(passages []domain.RetrievedPassage) Grounding {
	blocks := lo.Map(passages, func(p domain.RetrievedPassage, _ int) string {
		return fmt.Sprintf("[%s Pg %d]\n%s", p.DocumentName, p.PageNumber, p.ReferenceText)
	})
	sources := lo.Map(passages, func(p domain.RetrievedPassage, _ int) string {
		return fmt.Sprintf("%s (Pg %d) — Score: %.2f", p.DocumentName, p.PageNumber, p.Similarity)
	})
	return Grounding{
		Context:    strings.Join(blocks, "\n\n"),
		Provenance: strings.Join(sources, "\n"),
	}
}
