package repository

import (
	"errors"
	"fmt"

	"eco-route-go/internal/model"

	"gorm.io/gorm"
)

// ErrSearchNotFound is returned when no search has the given id.
var ErrSearchNotFound = errors.New("search not found")

// SearchRepository stores route searches and their alternatives.
type SearchRepository interface {
	Create(search *model.Search) error
	GetByID(id string) (*model.Search, error)
	List(page, pageSize int) ([]*model.Search, int64, error)
	Delete(id string) error
}

// searchRepository implements SearchRepository with gorm.
type searchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a SearchRepository.
func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{
		db: db,
	}
}

// Create inserts the search and its routes in one transaction.
func (r *searchRepository) Create(search *model.Search) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Omit("Routes").Create(search).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create search: %w", err)
	}

	for i := range search.Routes {
		search.Routes[i].ID = 0
		search.Routes[i].SearchID = search.ID
		if err := tx.Create(&search.Routes[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create search route %d: %w", i, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID loads a search with its routes.
func (r *searchRepository) GetByID(id string) (*model.Search, error) {
	var search model.Search
	err := r.db.Preload("Routes", func(db *gorm.DB) *gorm.DB {
		return db.Order("route_index ASC")
	}).Where("id = ?", id).First(&search).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("search %s: %w", id, ErrSearchNotFound)
		}
		return nil, fmt.Errorf("failed to get search: %w", err)
	}
	return &search, nil
}

// List returns one page of searches, newest first, and the total count.
func (r *searchRepository) List(page, pageSize int) ([]*model.Search, int64, error) {
	var searches []*model.Search
	var total int64

	if err := r.db.Model(&model.Search{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count searches: %w", err)
	}

	offset := (page - 1) * pageSize
	err := r.db.Preload("Routes", func(db *gorm.DB) *gorm.DB {
		return db.Order("route_index ASC")
	}).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&searches).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list searches: %w", err)
	}

	return searches, total, nil
}

// Delete removes a search and its routes.
func (r *searchRepository) Delete(id string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Where("search_id = ?", id).Delete(&model.SearchRoute{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete search routes: %w", err)
	}

	result := tx.Where("id = ?", id).Delete(&model.Search{})
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete search: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("search %s: %w", id, ErrSearchNotFound)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
