package render

import (
	"fmt"
	"math"
	"strings"

	"policyqa/internal/models"
)

const snippetMaxLen = 200

// CitationList is the collapsible sources attachment under an assistant
// message. It starts collapsed; expanding it is a presentation concern.
type CitationList struct {
	Header    string         `json:"header"`
	Collapsed bool           `json:"collapsed"`
	Cards     []CitationCard `json:"cards"`
}

// CitationCard is one grounding reference. Meta joins the structured
// fields with middle dots; Snippet is the quoted excerpt, empty when the
// source has none.
type CitationCard struct {
	Title   string `json:"title"`
	Meta    string `json:"meta"`
	Snippet string `json:"snippet,omitempty"`
}

// Citations renders the source list in order. Sources are shown exactly
// as received; deduplication is the answering service's responsibility.
func Citations(sources []models.Source) *CitationList {
	if len(sources) == 0 {
		return nil
	}
	list := &CitationList{
		Header:    fmt.Sprintf("%d Source(s) Referenced", len(sources)),
		Collapsed: true,
	}
	for _, src := range sources {
		list.Cards = append(list.Cards, citationCard(src))
	}
	return list
}

func citationCard(src models.Source) CitationCard {
	var parts []string
	if src.Clause != "" {
		parts = append(parts, "§"+src.Clause)
	}
	if label := sectionLabel(src); label != "" {
		parts = append(parts, label)
	}
	parts = append(parts, fmt.Sprintf("Page %d", src.Page))
	if src.Score != nil {
		parts = append(parts, fmt.Sprintf("Score: %d%%", int(math.Round(*src.Score*100))))
	}

	card := CitationCard{
		Title: src.DocName,
		Meta:  strings.Join(parts, " · "),
	}
	if src.Snippet != "" {
		card.Snippet = `"` + truncateSnippet(src.Snippet) + `"`
	}
	return card
}

func sectionLabel(src models.Source) string {
	if src.Section != "" {
		return src.Section
	}
	return src.HeadingPath
}

func truncateSnippet(s string) string {
	runes := []rune(s)
	if len(runes) <= snippetMaxLen {
		return s
	}
	return string(runes[:snippetMaxLen]) + "..."
}
