package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/internal/repository"
	"github.com/zuqon/content-backend/pkg/feeds"
	pkglogger "github.com/zuqon/content-backend/pkg/logger"
	"github.com/zuqon/content-backend/pkg/newsapi"
)

// NewsSearcher is the keyword search side of article ingestion.
type NewsSearcher interface {
	Search(ctx context.Context, query string, pageSize int) ([]newsapi.Article, error)
}

// FeedFetcher is the RSS side of article ingestion.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]feeds.Item, error)
}

// ArticleService ingests articles from configured sources and manages the
// saved pool.
type ArticleService struct {
	articleRepo repository.ArticleRepository
	sourceRepo  repository.SourceRepository
	news        NewsSearcher
	feeds       FeedFetcher
}

func NewArticleService(
	articleRepo repository.ArticleRepository,
	sourceRepo repository.SourceRepository,
	news NewsSearcher,
	feedFetcher FeedFetcher,
) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		sourceRepo:  sourceRepo,
		news:        news,
		feeds:       feedFetcher,
	}
}

func (s *ArticleService) List(page, limit int) ([]*domain.Article, int64, error) {
	return s.articleRepo.List(page, limit)
}

func (s *ArticleService) Save(article *domain.Article) error {
	return s.articleRepo.Create(article)
}

func (s *ArticleService) Delete(id uint64) error {
	return s.articleRepo.Delete(id)
}

// IngestSource fetches one source and saves its new articles, skipping
// URLs already in the pool. Returns the number of articles saved.
func (s *ArticleService) IngestSource(ctx context.Context, source *domain.Source) (int, error) {
	var candidates []*domain.Article

	switch domain.SourceType(source.Type) {
	case domain.SourceTypeRSS:
		if s.feeds == nil {
			return 0, fmt.Errorf("rss fetcher not configured")
		}
		items, err := s.feeds.Fetch(ctx, source.URL)
		if err != nil {
			return 0, err
		}
		for _, it := range items {
			candidates = append(candidates, &domain.Article{
				Title:       it.Title,
				URL:         it.Link,
				Description: it.Description,
				ImageURL:    it.ImageURL,
				SourceName:  source.Name,
				PublishedAt: it.PublishedAt,
			})
		}
	case domain.SourceTypeNewsAPI:
		if s.news == nil {
			return 0, fmt.Errorf("newsapi client not configured")
		}
		articles, err := s.news.Search(ctx, source.Query, 20)
		if err != nil {
			return 0, err
		}
		for _, a := range articles {
			candidates = append(candidates, &domain.Article{
				Title:       a.Title,
				URL:         a.URL,
				Description: a.Description,
				ImageURL:    a.URLToImage,
				SourceName:  a.Source.Name,
				PublishedAt: a.PublishedAt,
			})
		}
	default:
		return 0, fmt.Errorf("unknown source type %q", source.Type)
	}

	saved := 0
	for _, article := range candidates {
		if article.URL == "" || article.Title == "" {
			continue
		}
		err := s.articleRepo.Create(article)
		if errors.Is(err, common.ErrDuplicateArticle) {
			continue
		}
		if err != nil {
			return saved, err
		}
		saved++
	}

	pkglogger.GetLogger().Info().
		Uint64("source_id", source.ID).
		Str("source", source.Name).
		Int("saved", saved).
		Msg("source ingested")
	return saved, nil
}

// IngestAll runs ingestion for every enabled source. Per-source failures
// are logged and skipped so one broken feed does not starve the rest.
func (s *ArticleService) IngestAll(ctx context.Context) (int, error) {
	sources, err := s.sourceRepo.ListEnabled()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, source := range sources {
		n, err := s.IngestSource(ctx, source)
		if err != nil {
			pkglogger.Warn("ingest source %d (%s) failed: %v", source.ID, source.Name, err)
			continue
		}
		total += n
	}
	return total, nil
}

// TestSource probes a source configuration without saving anything.
func (s *ArticleService) TestSource(ctx context.Context, source *domain.Source) (int, error) {
	switch domain.SourceType(source.Type) {
	case domain.SourceTypeRSS:
		if s.feeds == nil {
			return 0, fmt.Errorf("rss fetcher not configured")
		}
		items, err := s.feeds.Fetch(ctx, source.URL)
		return len(items), err
	case domain.SourceTypeNewsAPI:
		if s.news == nil {
			return 0, fmt.Errorf("newsapi client not configured")
		}
		articles, err := s.news.Search(ctx, source.Query, 5)
		return len(articles), err
	}
	return 0, fmt.Errorf("unknown source type %q", source.Type)
}
