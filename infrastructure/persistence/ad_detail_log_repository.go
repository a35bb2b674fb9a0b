package persistence

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"imospy/domain/model"
	"imospy/domain/repository"
	"imospy/infrastructure/logger"
)

const adDetailLogCollection = "ad_detail_logs"

// AdDetailLogRepository keeps the raw ad detail payloads of each analysis in
// MongoDB. Without a database it is a no-op.
type AdDetailLogRepository struct {
	collection *mongo.Collection
}

func NewAdDetailLogRepository(db *mongo.Database) repository.IAdDetailLog {
	if db == nil {
		return &AdDetailLogRepository{}
	}
	return &AdDetailLogRepository{collection: db.Collection(adDetailLogCollection)}
}

func (r *AdDetailLogRepository) Insert(ctx context.Context, entry *model.AdDetailLog) error {
	if r.collection == nil || entry == nil {
		return nil
	}
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now().UTC()
	}
	entry.Count = len(entry.Details)
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		logger.GetLogger().WithField("error", err).WithField("company", entry.Company).Error("Error while inserting ad detail log")
		return err
	}
	return nil
}
