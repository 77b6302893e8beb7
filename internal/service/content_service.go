package service

import (
	"context"
	"encoding/json"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/internal/repository"
	"github.com/zuqon/content-backend/pkg/cache"
	"github.com/zuqon/content-backend/pkg/llm"
	pkglogger "github.com/zuqon/content-backend/pkg/logger"
)

// PostGenerator produces a per-platform post set from a prompt.
type PostGenerator interface {
	Generate(ctx context.Context, prompt string) (*llm.GeneratedPosts, error)
}

// ContentList is a cached page of content items.
type ContentList struct {
	Items []*domain.ContentItem `json:"items"`
	Total int64                 `json:"total"`
}

// ContentService covers content CRUD, generation from articles, and the
// one-shot snapshot read used by the UI before it subscribes.
type ContentService struct {
	contentRepo repository.ContentRepository
	articleRepo repository.ArticleRepository
	promptRepo  repository.PromptRepository
	generator   PostGenerator
	cache       cache.Service
}

func NewContentService(
	contentRepo repository.ContentRepository,
	articleRepo repository.ArticleRepository,
	promptRepo repository.PromptRepository,
	generator PostGenerator,
	cacheService cache.Service,
) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		articleRepo: articleRepo,
		promptRepo:  promptRepo,
		generator:   generator,
		cache:       cacheService,
	}
}

func (s *ContentService) Get(id uint64) (*domain.ContentItem, error) {
	return s.contentRepo.FindByID(id)
}

// List returns a page of content items, served from cache when possible.
func (s *ContentService) List(ctx context.Context, page, limit int) (*ContentList, error) {
	if s.cache != nil {
		if data, err := s.cache.GetContentList(ctx, page, limit); err == nil {
			var cached ContentList
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	items, total, err := s.contentRepo.List(page, limit)
	if err != nil {
		return nil, err
	}

	list := &ContentList{Items: items, Total: total}
	if s.cache != nil {
		if err := s.cache.SetContentList(ctx, page, limit, list); err != nil {
			pkglogger.Warn("content list cache write failed: %v", err)
		}
	}
	return list, nil
}

func (s *ContentService) Update(item *domain.ContentItem) error {
	if err := s.contentRepo.Update(item); err != nil {
		return err
	}
	s.invalidate(context.Background(), item.ID)
	return nil
}

func (s *ContentService) Delete(id uint64) error {
	if err := s.contentRepo.Delete(id); err != nil {
		return err
	}
	s.invalidate(context.Background(), id)
	return nil
}

// Snapshot reads the current publishing state of one item. The cache TTL
// sits under the poll interval, so a stale read never outlives one tick.
func (s *ContentService) Snapshot(ctx context.Context, id uint64) (*domain.PublishingSnapshot, error) {
	if s.cache != nil {
		if data, err := s.cache.GetSnapshot(ctx, id); err == nil {
			var cached domain.PublishingSnapshot
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	item, err := s.contentRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	snapshot := item.Snapshot()

	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, id, snapshot); err != nil {
			pkglogger.Warn("snapshot cache write failed: %v", err)
		}
	}
	return &snapshot, nil
}

// GenerateFromArticle runs the active prompt against an article and saves
// the resulting post set as a new content item.
func (s *ContentService) GenerateFromArticle(ctx context.Context, articleID uint64) (*domain.ContentItem, error) {
	if s.generator == nil {
		return nil, common.ErrInvalidInput
	}

	article, err := s.articleRepo.FindByID(articleID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.promptRepo.FindActive()
	if err != nil {
		return nil, err
	}

	filled := llm.FillTemplate(prompt.Template, article.Title, article.Description, article.URL)
	posts, err := s.generator.Generate(ctx, filled)
	if err != nil {
		return nil, err
	}

	item := &domain.ContentItem{
		Name:          article.Title,
		SourceURL:     article.URL,
		FacebookPost:  posts.Facebook,
		InstagramPost: posts.Instagram,
		TwitterPost:   posts.Twitter,
		VideoScript:   posts.VideoScript,
		PublishStatus: string(domain.StatusNotPublished),
	}
	if err := s.contentRepo.Create(item); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	pkglogger.WithContentID(item.ID).Info().
		Uint64("article_id", articleID).
		Msg("content generated from article")
	return item, nil
}

func (s *ContentService) invalidateLists(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateContentLists(ctx); err != nil {
		pkglogger.Warn("content list cache invalidation failed: %v", err)
	}
}

func (s *ContentService) invalidate(ctx context.Context, id uint64) {
	s.invalidateLists(ctx)
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSnapshot(ctx, id); err != nil {
		pkglogger.Warn("snapshot cache invalidation failed: %v", err)
	}
}
