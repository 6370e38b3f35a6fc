package entities

import "time"

// AccountPost is a tweet authored by one of the configured accounts, with its
// engagement counters as they were at fetch time.
type AccountPost struct {
	ID           uint `gorm:"primaryKey"`
	Username     string
	PostID       string    `gorm:"column:tweet_id"`
	Text         string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	RetweetCount int       `gorm:"column:retweets"`
	LikeCount    int       `gorm:"column:likes"`
	BatchLabel   string    `gorm:"column:filename"`
}

func (AccountPost) TableName() string {
	return "user_tweets"
}
