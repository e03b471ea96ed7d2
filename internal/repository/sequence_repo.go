package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository allocates monotonic document numbers per (kind, year).
type SequenceRepository interface {
	// Next increments and returns the counter for (kind, year). Call it inside
	// the same transaction that persists the document so an aborted create
	// rolls the number back with it.
	Next(ctx context.Context, kind string, year int) (int, error)
	// Seed raises the counter to at least lastNumber, for migrating rows whose
	// numbers predate the sequence table. Lower or equal values are no-ops.
	Seed(ctx context.Context, kind string, year, lastNumber int) error
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) Next(ctx context.Context, kind string, year int) (int, error) {
	db := GetDB(ctx, r.db)

	// Ensure the row exists, then bump it with a single UPDATE. The UPDATE
	// takes a row lock for the rest of the transaction, so concurrent creates
	// serialize on the counter instead of racing a scan.
	seq := model.DocumentSequence{Kind: kind, Year: year, LastNumber: 0}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return 0, err
	}

	if err := db.Model(&model.DocumentSequence{}).
		Where("kind = ? AND year = ?", kind, year).
		UpdateColumn("last_number", gorm.Expr("last_number + 1")).Error; err != nil {
		return 0, err
	}

	var current model.DocumentSequence
	if err := db.First(&current, "kind = ? AND year = ?", kind, year).Error; err != nil {
		return 0, err
	}
	return current.LastNumber, nil
}

func (r *sequenceRepository) Seed(ctx context.Context, kind string, year, lastNumber int) error {
	db := GetDB(ctx, r.db)

	seq := model.DocumentSequence{Kind: kind, Year: year, LastNumber: 0}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return err
	}

	return db.Model(&model.DocumentSequence{}).
		Where("kind = ? AND year = ? AND last_number < ?", kind, year, lastNumber).
		UpdateColumn("last_number", lastNumber).Error
}
