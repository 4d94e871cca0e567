package repository

import (
	"context"
	"errors"

	"scolaris/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sequence kinds
const (
	SeqInvoice = "FAC"
	SeqJournal = "JRN"
)

// SequenceRepository draws monotonically increasing document numbers per
// (school, kind, period). Next must be called inside a transaction: the
// sequence row is locked with SELECT ... FOR UPDATE, which is what makes
// invoice numbering race-free per school.
type SequenceRepository interface {
	Next(ctx context.Context, schoolID uuid.UUID, kind, period string) (int64, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) Next(ctx context.Context, schoolID uuid.UUID, kind, period string) (int64, error) {
	db := GetDB(ctx, r.db)

	var seq model.DocumentSequence
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("school_id = ? AND kind = ? AND period = ?", schoolID, kind, period).
		First(&seq).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = model.DocumentSequence{SchoolID: schoolID, Kind: kind, Period: period, NextSeq: 2}
		// A concurrent first draw for the same period trips the unique index;
		// the caller's transaction retries or fails as a sequencing race.
		if createErr := db.Create(&seq).Error; createErr != nil {
			return 0, model.ErrDuplicateInvoiceNumber
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	n := seq.NextSeq
	seq.NextSeq = n + 1
	if err := db.Save(&seq).Error; err != nil {
		return 0, err
	}
	return n, nil
}
