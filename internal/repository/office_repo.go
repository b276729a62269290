package repository

import (
	"context"

	"github.com/hostelhq/reservation-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OfficeRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Office, error)
}

type officeRepository struct {
	db *gorm.DB
}

func NewOfficeRepository(db *gorm.DB) OfficeRepository {
	return &officeRepository{db: db}
}

// FindByIDForUpdate locks the office row inside the transaction; the
// reservation code sequence serializes on this lock. SQLite (used by the unit
// tests) locks the whole database on write, so the clause is postgres only.
func (r *officeRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Office, error) {
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var office models.Office
	if err := q.First(&office, id).Error; err != nil {
		return nil, err
	}
	return &office, nil
}
