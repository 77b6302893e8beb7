package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
)

// PromptRepository generation prompt data access
type PromptRepository interface {
	FindByID(id uint64) (*domain.Prompt, error)
	FindActive() (*domain.Prompt, error)
	ListAll() ([]*domain.Prompt, error)
	Create(prompt *domain.Prompt) error
	Update(prompt *domain.Prompt) error
	SetActive(id uint64) error
	Delete(id uint64) error
}

type promptRepository struct {
	db *gorm.DB
}

// NewPromptRepository creates a new PromptRepository
func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) FindByID(id uint64) (*domain.Prompt, error) {
	var prompt domain.Prompt
	err := r.db.Where("id = ?", id).First(&prompt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPromptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepository) FindActive() (*domain.Prompt, error) {
	var prompt domain.Prompt
	err := r.db.Where("active = ?", true).First(&prompt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNoActivePrompt
	}
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepository) ListAll() ([]*domain.Prompt, error) {
	var prompts []*domain.Prompt
	err := r.db.Order("id").Find(&prompts).Error
	return prompts, err
}

func (r *promptRepository) Create(prompt *domain.Prompt) error {
	return r.db.Create(prompt).Error
}

func (r *promptRepository) Update(prompt *domain.Prompt) error {
	return r.db.Save(prompt).Error
}

// SetActive activates one prompt and deactivates the rest in one
// transaction.
func (r *promptRepository) SetActive(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Prompt{}).Where("active = ?", true).Update("active", false).Error; err != nil {
			return err
		}
		result := tx.Model(&domain.Prompt{}).Where("id = ?", id).Update("active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrPromptNotFound
		}
		return nil
	})
}

func (r *promptRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.Prompt{}, id).Error
}
