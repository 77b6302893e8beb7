package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/pkg/llm"
)

type fakePromptRepo struct {
	active *domain.Prompt
}

func (r *fakePromptRepo) FindByID(id uint64) (*domain.Prompt, error) { return nil, common.ErrPromptNotFound }
func (r *fakePromptRepo) FindActive() (*domain.Prompt, error) {
	if r.active == nil {
		return nil, common.ErrNoActivePrompt
	}
	return r.active, nil
}
func (r *fakePromptRepo) ListAll() ([]*domain.Prompt, error) { return nil, nil }
func (r *fakePromptRepo) Create(*domain.Prompt) error        { return nil }
func (r *fakePromptRepo) Update(*domain.Prompt) error        { return nil }
func (r *fakePromptRepo) SetActive(uint64) error             { return nil }
func (r *fakePromptRepo) Delete(uint64) error                { return nil }

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (*llm.GeneratedPosts, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.GeneratedPosts), args.Error(1)
}

func TestGenerateFromArticle(t *testing.T) {
	contentRepo := newFakeContentRepo()
	articleRepo := newFakeArticleRepo()
	assert.NoError(t, articleRepo.Create(&domain.Article{
		Title:       "Go 1.24 released",
		URL:         "https://example.com/go",
		Description: "release notes",
	}))
	prompts := &fakePromptRepo{active: &domain.Prompt{
		Template: "Write posts about {{title}}: {{description}} ({{url}})",
		Active:   true,
	}}

	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, "Write posts about Go 1.24 released: release notes (https://example.com/go)").
		Return(&llm.GeneratedPosts{Facebook: "fb", Instagram: "ig", Twitter: "tw", VideoScript: "vid"}, nil)

	svc := NewContentService(contentRepo, articleRepo, prompts, gen, nil)
	item, err := svc.GenerateFromArticle(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "Go 1.24 released", item.Name)
	assert.Equal(t, "fb", item.FacebookPost)
	assert.Equal(t, "Not_Published", item.PublishStatus)

	stored, err := svc.Get(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/go", stored.SourceURL)
	gen.AssertExpectations(t)
}

func TestGenerateFromArticleNoActivePrompt(t *testing.T) {
	contentRepo := newFakeContentRepo()
	articleRepo := newFakeArticleRepo()
	assert.NoError(t, articleRepo.Create(&domain.Article{Title: "T", URL: "https://example.com/t"}))

	svc := NewContentService(contentRepo, articleRepo, &fakePromptRepo{}, new(mockGenerator), nil)
	_, err := svc.GenerateFromArticle(context.Background(), 1)

	assert.ErrorIs(t, err, common.ErrNoActivePrompt)
}

func TestSnapshotReadsCurrentState(t *testing.T) {
	contentRepo := newFakeContentRepo(&domain.ContentItem{
		ID:               7,
		PublishStatus:    "Failed",
		PublishPlatforms: []domain.Platform{"twitter"},
		TwitterStatus:    "Failed",
		PublishingErrors: "Twitter: rate limited",
	})

	svc := NewContentService(contentRepo, nil, nil, nil, nil)
	snapshot, err := svc.Snapshot(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, snapshot.Status)
	assert.Equal(t, domain.PlatformFailed, snapshot.TwitterStatus)
	assert.Equal(t, "Twitter: rate limited", snapshot.Errors)
}
