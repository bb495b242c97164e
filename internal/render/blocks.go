package render

// Block types produced by the content pipeline. The pipeline emits a
// structural tree, not markup; adapters decide how each block type is
// displayed.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeading   BlockType = "heading"
	BlockQuote     BlockType = "quote"
	BlockList      BlockType = "list"
	BlockCallout   BlockType = "callout"
)

type SpanKind string

const (
	SpanText   SpanKind = "text"
	SpanStrong SpanKind = "strong"
	SpanEm     SpanKind = "em"
	SpanCode   SpanKind = "code"
	SpanBreak  SpanKind = "break"
)

// Span is one inline fragment. Text carries entity-escaped literal text
// for text and code spans; strong and em spans hold their content in
// Children. Break spans mark single-newline line breaks inside a
// paragraph.
type Span struct {
	Kind     SpanKind `json:"kind"`
	Text     string   `json:"text,omitempty"`
	Children []Span   `json:"children,omitempty"`
}

// Block is one structural unit of rendered content.
type Block struct {
	Type     BlockType `json:"type"`
	Level    int       `json:"level,omitempty"`    // headings: 3 or 4
	Spans    []Span    `json:"spans,omitempty"`    // paragraph, heading, quote
	Items    [][]Span  `json:"items,omitempty"`    // list items in order
	Children []Block   `json:"children,omitempty"` // callout body
}
