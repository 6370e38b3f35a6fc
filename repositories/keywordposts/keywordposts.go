package keywordposts

import (
	"context"
	"fmt"

	"twitter-etl/models/entities"
	"twitter-etl/utils/databases"

	"gorm.io/gorm"
)

const insertBatchSize = 500

func New(db databases.SqlConnection) *Impl {
	return &Impl{db: db}
}

// SaveBatch inserts every post under one batch label in a single transaction:
// either all rows are visible afterwards or none are.
func (repo *Impl) SaveBatch(ctx context.Context, posts []entities.KeywordPost, batchLabel string) error {
	if len(posts) == 0 {
		return nil
	}

	rows := make([]entities.KeywordPost, 0, len(posts))
	for _, post := range posts {
		post.ID = 0
		post.BatchLabel = batchLabel
		rows = append(rows, post)
	}

	err := repo.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, insertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save keyword posts: %w", err)
	}

	return nil
}
