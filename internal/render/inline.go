package render

import "strings"

// parseInline applies the inline transforms to one escaped line. Order is
// fixed: bold, then italic, then code. Later transforms descend into the
// children produced by earlier ones, so emphasis can nest the way the
// precedence implies (code inside bold, code inside italic).
func parseInline(text string) []Span {
	spans := []Span{{Kind: SpanText, Text: text}}
	spans = applyStrong(spans)
	spans = applyEm(spans)
	spans = applyCode(spans)
	return spans
}

func applyStrong(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if s.Kind != SpanText {
			out = append(out, s)
			continue
		}
		out = append(out, splitStrong(s.Text)...)
	}
	return out
}

// splitStrong extracts **text** pairs. The delimiter needs at least one
// character between the markers; bare ** runs stay literal.
func splitStrong(text string) []Span {
	var out []Span
	rest := text
	for {
		open := strings.Index(rest, "**")
		if open < 0 {
			break
		}
		tail := rest[open+2:]
		end := -1
		off := 0
		for {
			k := strings.Index(tail[off:], "**")
			if k < 0 {
				break
			}
			if off+k > 0 {
				end = off + k
				break
			}
			off++
		}
		if end < 0 {
			break
		}
		if open > 0 {
			out = append(out, Span{Kind: SpanText, Text: rest[:open]})
		}
		out = append(out, Span{
			Kind:     SpanStrong,
			Children: []Span{{Kind: SpanText, Text: tail[:end]}},
		})
		rest = tail[end+2:]
	}
	if rest != "" || len(out) == 0 {
		out = append(out, Span{Kind: SpanText, Text: rest})
	}
	return out
}

func applyEm(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		switch s.Kind {
		case SpanText:
			out = append(out, splitEm(s.Text)...)
		case SpanStrong:
			s.Children = applyEm(s.Children)
			out = append(out, s)
		default:
			out = append(out, s)
		}
	}
	return out
}

// splitEm extracts single *text* pairs. A star adjacent to another star
// never opens or closes italics, which keeps leftover bold markers
// literal. The enclosed text itself contains no stars.
func splitEm(text string) []Span {
	var out []Span
	start := 0
	i := 0
	for i < len(text) {
		if text[i] != '*' {
			i++
			continue
		}
		if i > 0 && text[i-1] == '*' {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && text[j] != '*' {
			j++
		}
		if j >= len(text) || j == i+1 {
			i = j
			continue
		}
		if j+1 < len(text) && text[j+1] == '*' {
			i = j + 1
			continue
		}
		if i > start {
			out = append(out, Span{Kind: SpanText, Text: text[start:i]})
		}
		out = append(out, Span{
			Kind:     SpanEm,
			Children: []Span{{Kind: SpanText, Text: text[i+1 : j]}},
		})
		start = j + 1
		i = j + 1
	}
	if start < len(text) || len(out) == 0 {
		out = append(out, Span{Kind: SpanText, Text: text[start:]})
	}
	return out
}

func applyCode(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		switch s.Kind {
		case SpanText:
			out = append(out, splitCode(s.Text)...)
		case SpanStrong, SpanEm:
			s.Children = applyCode(s.Children)
			out = append(out, s)
		default:
			out = append(out, s)
		}
	}
	return out
}

// splitCode extracts `text` pairs with non-empty content.
func splitCode(text string) []Span {
	var out []Span
	rest := text
	for {
		open := strings.IndexByte(rest, '`')
		if open < 0 {
			break
		}
		end := strings.IndexByte(rest[open+1:], '`')
		if end < 0 {
			break
		}
		if end == 0 {
			out = append(out, Span{Kind: SpanText, Text: rest[:open+1]})
			rest = rest[open+1:]
			continue
		}
		if open > 0 {
			out = append(out, Span{Kind: SpanText, Text: rest[:open]})
		}
		out = append(out, Span{Kind: SpanCode, Text: rest[open+1 : open+1+end]})
		rest = rest[open+1+end+1:]
	}
	if rest != "" || len(out) == 0 {
		out = append(out, Span{Kind: SpanText, Text: rest})
	}
	return out
}
