package entities

import "time"

// KeywordPost is a tweet found by searching one of the configured keywords.
// Rows are append-only: the same tweet found by two runs is stored twice.
type KeywordPost struct {
	ID             uint      `gorm:"primaryKey"`
	PostID         string    `gorm:"column:tweet_id"`
	Text           string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime:false"`
	AuthorID       string
	ConversationID string
	SearchedTerm   string
	BatchLabel     string `gorm:"column:filename"`
}

func (KeywordPost) TableName() string {
	return "keyword_tweets"
}
