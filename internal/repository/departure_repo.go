package repository

import (
	"context"
	"errors"
	"time"

	"tourstay/internal/domain"

	"gorm.io/gorm"
)

type DepartureRepository struct {
	db *gorm.DB
}

func NewDepartureRepository(db *gorm.DB) *DepartureRepository {
	return &DepartureRepository{db: db}
}

func (r *DepartureRepository) GetByID(ctx context.Context, id int64) (*domain.Departure, error) {
	var dep domain.Departure
	err := r.db.WithContext(ctx).First(&dep, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dep, nil
}

// ListUpcoming returns active departures that have not started yet,
// soonest first.
func (r *DepartureRepository) ListUpcoming(ctx context.Context, now time.Time) ([]domain.Departure, error) {
	var deps []domain.Departure
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND starts_at > ?", true, now).
		Order("starts_at").
		Find(&deps).Error
	return deps, err
}
