package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
)

// ArticleRepository saved article data access
type ArticleRepository interface {
	FindByID(id uint64) (*domain.Article, error)
	List(page, limit int) ([]*domain.Article, int64, error)
	Create(article *domain.Article) error
	Delete(id uint64) error
	ExistsByURL(url string) (bool, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) FindByID(id uint64) (*domain.Article, error) {
	var article domain.Article
	err := r.db.Where("id = ?", id).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(page, limit int) ([]*domain.Article, int64, error) {
	var articles []*domain.Article
	var total int64

	query := r.db.Model(&domain.Article{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("published_at DESC, id DESC").Offset(offset).Limit(limit).Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// Create saves an article, enforcing the duplicate-URL guard.
func (r *articleRepository) Create(article *domain.Article) error {
	exists, err := r.ExistsByURL(article.URL)
	if err != nil {
		return err
	}
	if exists {
		return common.ErrDuplicateArticle
	}
	return r.db.Create(article).Error
}

func (r *articleRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.Article{}, id).Error
}

func (r *articleRepository) ExistsByURL(url string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Article{}).Where("url = ?", url).Count(&count).Error
	return count > 0, err
}
