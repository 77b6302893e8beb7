package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
)

// SourceRepository article source config data access
type SourceRepository interface {
	FindByID(id uint64) (*domain.Source, error)
	ListEnabled() ([]*domain.Source, error)
	ListAll() ([]*domain.Source, error)
	Create(source *domain.Source) error
	Update(source *domain.Source) error
	Delete(id uint64) error
}

type sourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new SourceRepository
func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) FindByID(id uint64) (*domain.Source, error) {
	var source domain.Source
	err := r.db.Where("id = ?", id).First(&source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrSourceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *sourceRepository) ListEnabled() ([]*domain.Source, error) {
	var sources []*domain.Source
	err := r.db.Where("enabled = ?", true).Order("id").Find(&sources).Error
	return sources, err
}

func (r *sourceRepository) ListAll() ([]*domain.Source, error) {
	var sources []*domain.Source
	err := r.db.Order("id").Find(&sources).Error
	return sources, err
}

func (r *sourceRepository) Create(source *domain.Source) error {
	return r.db.Create(source).Error
}

func (r *sourceRepository) Update(source *domain.Source) error {
	return r.db.Save(source).Error
}

func (r *sourceRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.Source{}, id).Error
}
