package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/pkg/feeds"
	"github.com/zuqon/content-backend/pkg/newsapi"
)

type fakeArticleRepo struct {
	byURL map[string]bool
	saved []*domain.Article
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{byURL: map[string]bool{}}
}

func (r *fakeArticleRepo) FindByID(id uint64) (*domain.Article, error) {
	for _, a := range r.saved {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, common.ErrArticleNotFound
}

func (r *fakeArticleRepo) List(page, limit int) ([]*domain.Article, int64, error) {
	return r.saved, int64(len(r.saved)), nil
}

func (r *fakeArticleRepo) Create(article *domain.Article) error {
	if r.byURL[article.URL] {
		return common.ErrDuplicateArticle
	}
	article.ID = uint64(len(r.saved) + 1)
	r.byURL[article.URL] = true
	r.saved = append(r.saved, article)
	return nil
}

func (r *fakeArticleRepo) Delete(id uint64) error { return nil }

func (r *fakeArticleRepo) ExistsByURL(url string) (bool, error) {
	return r.byURL[url], nil
}

type fakeSourceRepo struct {
	sources []*domain.Source
}

func (r *fakeSourceRepo) FindByID(id uint64) (*domain.Source, error) {
	return nil, common.ErrSourceNotFound
}
func (r *fakeSourceRepo) ListEnabled() ([]*domain.Source, error) { return r.sources, nil }
func (r *fakeSourceRepo) ListAll() ([]*domain.Source, error)     { return r.sources, nil }
func (r *fakeSourceRepo) Create(*domain.Source) error            { return nil }
func (r *fakeSourceRepo) Update(*domain.Source) error            { return nil }
func (r *fakeSourceRepo) Delete(uint64) error                    { return nil }

type mockNews struct {
	mock.Mock
}

func (m *mockNews) Search(ctx context.Context, query string, pageSize int) ([]newsapi.Article, error) {
	args := m.Called(ctx, query, pageSize)
	return args.Get(0).([]newsapi.Article), args.Error(1)
}

type mockFeeds struct {
	mock.Mock
}

func (m *mockFeeds) Fetch(ctx context.Context, url string) ([]feeds.Item, error) {
	args := m.Called(ctx, url)
	return args.Get(0).([]feeds.Item), args.Error(1)
}

func TestIngestSourceRSSSkipsDuplicates(t *testing.T) {
	articleRepo := newFakeArticleRepo()
	feedMock := new(mockFeeds)
	feedMock.On("Fetch", mock.Anything, "https://example.com/feed").Return([]feeds.Item{
		{Title: "First", Link: "https://example.com/1"},
		{Title: "Second", Link: "https://example.com/2"},
		{Title: "No link"},
	}, nil)

	svc := NewArticleService(articleRepo, &fakeSourceRepo{}, nil, feedMock)
	source := &domain.Source{ID: 1, Name: "Example", Type: "rss", URL: "https://example.com/feed"}

	saved, err := svc.IngestSource(context.Background(), source)
	assert.NoError(t, err)
	assert.Equal(t, 2, saved)

	// second run finds only duplicates
	saved, err = svc.IngestSource(context.Background(), source)
	assert.NoError(t, err)
	assert.Equal(t, 0, saved)
}

func TestIngestSourceNewsAPI(t *testing.T) {
	articleRepo := newFakeArticleRepo()
	news := new(mockNews)
	article := newsapi.Article{Title: "AI post", URL: "https://news.example/a"}
	article.Source.Name = "News Example"
	news.On("Search", mock.Anything, "ai", 20).Return([]newsapi.Article{article}, nil)

	svc := NewArticleService(articleRepo, &fakeSourceRepo{}, news, nil)
	source := &domain.Source{ID: 2, Name: "NewsAPI", Type: "newsapi", Query: "ai"}

	saved, err := svc.IngestSource(context.Background(), source)
	assert.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.Equal(t, "News Example", articleRepo.saved[0].SourceName)
}

func TestIngestAllSkipsBrokenSource(t *testing.T) {
	articleRepo := newFakeArticleRepo()
	feedMock := new(mockFeeds)
	feedMock.On("Fetch", mock.Anything, "https://bad.example/feed").
		Return([]feeds.Item(nil), assert.AnError)
	feedMock.On("Fetch", mock.Anything, "https://good.example/feed").
		Return([]feeds.Item{{Title: "Ok", Link: "https://good.example/1"}}, nil)

	sources := &fakeSourceRepo{sources: []*domain.Source{
		{ID: 1, Name: "Bad", Type: "rss", URL: "https://bad.example/feed"},
		{ID: 2, Name: "Good", Type: "rss", URL: "https://good.example/feed"},
	}}

	svc := NewArticleService(articleRepo, sources, nil, feedMock)
	total, err := svc.IngestAll(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
}
