package models

// Chat is an unordered set of members plus an ordered message log.
// Membership only grows; there is no removal path.
type Chat struct {
	BaseModel

	Members  []Account `json:"members" gorm:"many2many:chat_members"`
	Messages []Message `json:"messages,omitempty"`
}

// Message is immutable once created.
type Message struct {
	BaseModel

	Content  string  `json:"content"`
	ChatID   uint    `json:"chat_id"`
	SenderID uint    `json:"sender_id"`
	Sender   Account `json:"sender"`
}
