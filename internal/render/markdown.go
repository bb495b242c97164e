package render

import "strings"

// Marker phrases the answering service emits when it cannot ground an
// answer in the indexed documents. Their presence switches the whole
// message body into the callout variant.
const (
	noAnswerMarkerRelated = "couldn't find anything related"
	noAnswerMarkerDirect  = "couldn't find a direct answer"
)

// Blocks turns raw answer text into an ordered block sequence. The
// function is pure: the same input always yields the same blocks, so
// stored conversations can be re-rendered at any time.
func Blocks(text string) []Block {
	body := stripSourcesSuffix(text)
	if isNoAnswer(text) {
		return []Block{{Type: BlockCallout, Children: scan(body)}}
	}
	return scan(body)
}

func isNoAnswer(text string) bool {
	return strings.Contains(text, noAnswerMarkerRelated) ||
		strings.Contains(text, noAnswerMarkerDirect)
}

// stripSourcesSuffix drops the textual "Sources:" tail the service
// appends to some answers. The structured source list supersedes it.
func stripSourcesSuffix(text string) string {
	if idx := strings.Index(text, "\nSources:"); idx >= 0 {
		return strings.TrimRight(text[:idx], " \n")
	}
	return text
}

// scan walks the text paragraph by paragraph. Block detection is
// line-based: headings, quotes, and list runs interrupt a paragraph;
// everything else accumulates into paragraph text with break spans at
// single newlines. Nested lists, ordered lists, tables, and links are
// not part of the subset and pass through as literal text.
func scan(text string) []Block {
	var blocks []Block
	for _, para := range splitParagraphs(text) {
		blocks = append(blocks, scanParagraph(para)...)
	}
	return blocks
}

// splitParagraphs groups lines into runs separated by one or more blank
// (or whitespace-only) lines.
func splitParagraphs(text string) [][]string {
	var paras [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				paras = append(paras, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paras = append(paras, current)
	}
	return paras
}

func scanParagraph(lines []string) []Block {
	var blocks []Block
	var textRun []string

	flushText := func() {
		if len(textRun) == 0 {
			return
		}
		blocks = append(blocks, Block{Type: BlockParagraph, Spans: joinLines(textRun)})
		textRun = nil
	}

	i := 0
	for i < len(lines) {
		line := escapeHTML(lines[i])
		switch {
		case strings.HasPrefix(line, "### "):
			flushText()
			blocks = append(blocks, Block{
				Type:  BlockHeading,
				Level: 4,
				Spans: parseInline(strings.TrimPrefix(line, "### ")),
			})
			i++
		case strings.HasPrefix(line, "## "):
			flushText()
			blocks = append(blocks, Block{
				Type:  BlockHeading,
				Level: 3,
				Spans: parseInline(strings.TrimPrefix(line, "## ")),
			})
			i++
		// The quote prefix is matched post-escaping, so a literal "> "
		// line arrives here as "&gt; ".
		case strings.HasPrefix(line, "&gt; "):
			flushText()
			blocks = append(blocks, Block{
				Type:  BlockQuote,
				Spans: parseInline(strings.TrimPrefix(line, "&gt; ")),
			})
			i++
		case strings.HasPrefix(line, "- "):
			flushText()
			var items [][]Span
			for i < len(lines) {
				item := escapeHTML(lines[i])
				if !strings.HasPrefix(item, "- ") {
					break
				}
				items = append(items, parseInline(strings.TrimPrefix(item, "- ")))
				i++
			}
			blocks = append(blocks, Block{Type: BlockList, Items: items})
		default:
			textRun = append(textRun, line)
			i++
		}
	}
	flushText()
	return blocks
}

// joinLines inline-parses each paragraph line and joins them with break
// spans. Lines are already escaped by the caller.
func joinLines(lines []string) []Span {
	var spans []Span
	for idx, line := range lines {
		if idx > 0 {
			spans = append(spans, Span{Kind: SpanBreak})
		}
		spans = append(spans, parseInline(line)...)
	}
	return spans
}

// escapeHTML rewrites the three HTML-sensitive characters. It runs before
// any inline or block matching, so all later rules operate on escaped
// text.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
