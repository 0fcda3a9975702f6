package chat

import "time"

const (
	MaxAuthorLength = 80
	HistoryLimit    = 50
	SystemAuthor    = "System"
)

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Author    string    `gorm:"column:author;type:varchar(80);not null" json:"author"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_message" }
