package render

import "policyqa/internal/models"

// MessageView is the fully rendered form of one stored message: content
// blocks plus the citation and follow-up attachments for assistant
// messages. Views are recomputed from the stored message on every
// display; nothing rendered is ever persisted.
type MessageView struct {
	Role      models.Role    `json:"role"`
	Blocks    []Block        `json:"blocks"`
	Citations *CitationList  `json:"citations,omitempty"`
	FollowUps []FollowUpItem `json:"followUps,omitempty"`
}

// Message renders one stored message. User content is literal text in a
// single paragraph; assistant content goes through the full pipeline.
func Message(msg models.Message) MessageView {
	view := MessageView{Role: msg.Role}
	if msg.Role == models.RoleUser {
		view.Blocks = []Block{{
			Type:  BlockParagraph,
			Spans: []Span{{Kind: SpanText, Text: escapeHTML(msg.Content)}},
		}}
		return view
	}
	view.Blocks = Blocks(msg.Content)
	view.Citations = Citations(msg.Sources)
	view.FollowUps = FollowUps(msg.FollowUps)
	return view
}

// Conversation renders every message of a stored conversation in order.
func Conversation(conv models.Conversation) []MessageView {
	views := make([]MessageView, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		views = append(views, Message(msg))
	}
	return views
}
