package service

import (
	"DreamInterpreter/internal/metrics"
	"DreamInterpreter/internal/model"
	"DreamInterpreter/internal/repo"
	"context"
	"fmt"
	"math"
)

// DefaultPageSize — размер страницы профиля.
const DefaultPageSize = 5

// DreamPage страница снов пользователя.
type DreamPage struct {
	Dreams   []model.Dream
	Page     int
	PageSize int
	Total    int64
	HasPrev  bool
	HasNext  bool
}

// DreamService сохранение и постраничная выдача снов.
type DreamService struct {
	repo     repo.DreamRepository
	pageSize int
}

func NewDreamService(r repo.DreamRepository, pageSize int) *DreamService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &DreamService{repo: r, pageSize: pageSize}
}

// Save сохраняет сон; время проставляет хранилище.
func (s *DreamService) Save(ctx context.Context, userID int64, description, interpretation string) (*model.Dream, error) {
	d := &model.Dream{
		UserID:           userID,
		DreamDescription: description,
		Interpretation:   &interpretation,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("save dream: %w", err)
	}
	metrics.DreamsSavedTotal.Inc()
	return d, nil
}

// ListForUser возвращает страницу page (с 1) от новых к старым.
// Страница за пределами данных — пустая, не ошибка.
func (s *DreamService) ListForUser(ctx context.Context, userID int64, page int) (DreamPage, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return DreamPage{}, fmt.Errorf("count dreams: %w", err)
	}

	result := DreamPage{
		Dreams:   []model.Dream{},
		Page:     page,
		PageSize: s.pageSize,
		Total:    total,
		HasPrev:  page > 1,
	}
	// смещение не должно переполнять int
	if page-1 > math.MaxInt/s.pageSize {
		return result, nil
	}
	offset := (page - 1) * s.pageSize
	if int64(offset) >= total && page > 1 {
		return result, nil
	}

	dreams, err := s.repo.ListByUser(ctx, userID, s.pageSize, offset)
	if err != nil {
		return DreamPage{}, fmt.Errorf("list dreams: %w", err)
	}

	result.Dreams = dreams
	result.HasNext = int64(offset+len(dreams)) < total
	return result, nil
}
