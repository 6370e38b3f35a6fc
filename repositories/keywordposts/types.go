package keywordposts

import (
	"context"

	"twitter-etl/models/entities"
	"twitter-etl/utils/databases"
)

type Repository interface {
	SaveBatch(ctx context.Context, posts []entities.KeywordPost, batchLabel string) error
}

type Impl struct {
	db databases.SqlConnection
}
