package render

// FollowUpItem is one suggested next question. Selecting an item must
// behave exactly like typing its Question and submitting it.
type FollowUpItem struct {
	Question string `json:"question"`
}

func FollowUps(questions []string) []FollowUpItem {
	if len(questions) == 0 {
		return nil
	}
	items := make([]FollowUpItem, 0, len(questions))
	for _, q := range questions {
		items = append(items, FollowUpItem{Question: q})
	}
	return items
}
