package entity

// LearningContent is a piece of in-app learning material, either inline
// text or an external link.
type LearningContent struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Type    string `json:"type"` // "text" or "link"
	Content string `json:"content"`
}
