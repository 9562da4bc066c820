package repo

import (
	"DreamInterpreter/internal/model"
	"context"

	"gorm.io/gorm"
)

// DreamRepository контракт доступа к снам пользователя.
type DreamRepository interface {
	// Create вставляет запись; Timestamp проставляется при вставке.
	Create(ctx context.Context, d *model.Dream) error

	// ListByUser возвращает сны пользователя от новых к старым.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Dream, error)

	CountByUser(ctx context.Context, userID int64) (int64, error)
}

type dreamRepo struct {
	db *gorm.DB
}

// NewDreamRepository создаёт реализацию репозитория для Dream.
func NewDreamRepository(db *gorm.DB) DreamRepository {
	return &dreamRepo{db: db}
}

func (r *dreamRepo) Create(ctx context.Context, d *model.Dream) error {
	d.Timestamp = nowUTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("User").Create(d).Error
	})
}

func (r *dreamRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Dream, error) {
	dreams := []model.Dream{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&dreams).Error
	if err != nil {
		return nil, err
	}
	return dreams, nil
}

func (r *dreamRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Dream{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
