package content

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/aurora-app/internal/infra/storage"
	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/repository"
	"github.com/anzhiyu-c/aurora-app/pkg/service/utility"
)

// fakeContentRepo 是内存实现的内容仓库，UpdateStorage 与真实实现一样
// 在单步内完成载荷写入与存储指向翻转。
type fakeContentRepo struct {
	mu    sync.Mutex
	items map[string]*model.ContentItem
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{items: make(map[string]*model.ContentItem)}
}

func contentKey(publicID string, contentType constant.ContentType) string {
	return string(contentType) + ":" + publicID
}

func (r *fakeContentRepo) seed(item *model.ContentItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[contentKey(item.ID, item.Type)] = &cp
}

func (r *fakeContentRepo) get(publicID string, contentType constant.ContentType) *model.ContentItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[contentKey(publicID, contentType)]; ok {
		cp := *item
		return &cp
	}
	return nil
}

func (r *fakeContentRepo) Create(ctx context.Context, item *model.ContentItem) error {
	r.seed(item)
	return nil
}

func (r *fakeContentRepo) FindByID(ctx context.Context, publicID string, contentType constant.ContentType) (*model.ContentItem, error) {
	if item := r.get(publicID, contentType); item != nil {
		return item, nil
	}
	return nil, fmt.Errorf("%w: 条目 '%s' 不存在", constant.ErrNotFound, publicID)
}

func (r *fakeContentRepo) UpdateStorage(
	ctx context.Context,
	publicID string,
	contentType constant.ContentType,
	storageType constant.StorageType,
	body string,
	locator model.ObjectLocator,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[contentKey(publicID, contentType)]
	if !ok {
		return fmt.Errorf("%w: 条目 '%s' 不存在", constant.ErrNotFound, publicID)
	}
	item.StorageType = storageType
	item.Body = body
	item.Locator = locator
	return nil
}

func (r *fakeContentRepo) CountByStorageType(ctx context.Context) (map[constant.StorageType]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[constant.StorageType]int)
	for _, item := range r.items {
		counts[item.StorageType]++
	}
	return counts, nil
}

// fakeObjectProvider 记录删除调用，可注入删除失败。
type fakeObjectProvider struct {
	mu        sync.Mutex
	deleted   []string
	deleteErr error
}

func (p *fakeObjectProvider) Put(ctx context.Context, key string, data []byte, contentType string) (*storage.ObjectInfo, error) {
	return nil, errors.New("not implemented")
}

func (p *fakeObjectProvider) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (p *fakeObjectProvider) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deleted = append(p.deleted, key)
	return nil
}

func (p *fakeObjectProvider) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (p *fakeObjectProvider) PublicURL(key string) string { return "https://cdn.example.com/" + key }
func (p *fakeObjectProvider) BucketName() string          { return "test-bucket" }

func newTestContentService(repo repository.ContentRepository, provider storage.IObjectProvider) Service {
	resolver := NewBackendFactory(NewInlineBackend(repo), NewObjectBackend(provider))
	return NewContentService(repo, resolver, NewValidator(1024), utility.NewItemLocker())
}

func TestContentService_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	svc := newTestContentService(repo, &fakeObjectProvider{})

	repo.seed(&model.ContentItem{
		ID:          "post-1",
		Type:        constant.ContentTypePost,
		StorageType: constant.StorageTypeInline,
		Body:        "旧正文",
	})

	result, err := svc.Save(ctx, "post-1", constant.ContentTypePost, "# 新正文")
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	stored := repo.get("post-1", constant.ContentTypePost)
	assert.Equal(t, "# 新正文", stored.Body)
	assert.Equal(t, constant.StorageTypeInline, stored.StorageType)

	body, err := svc.Get(ctx, "post-1", constant.ContentTypePost)
	require.NoError(t, err)
	assert.Equal(t, "# 新正文", body)
}

func TestContentService_SaveWithWarnings(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	svc := newTestContentService(repo, &fakeObjectProvider{})

	repo.seed(&model.ContentItem{
		ID:          "post-1",
		Type:        constant.ContentTypePost,
		StorageType: constant.StorageTypeInline,
		Body:        "旧正文",
	})

	// 未闭合的代码围栏是软警告：保存成功，警告随结果返回
	result, err := svc.Save(ctx, "post-1", constant.ContentTypePost, "```go\ncode")
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, "```go\ncode", repo.get("post-1", constant.ContentTypePost).Body)
}

func TestContentService_SaveValidationFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	svc := newTestContentService(repo, &fakeObjectProvider{})

	repo.seed(&model.ContentItem{
		ID:          "post-1",
		Type:        constant.ContentTypePost,
		StorageType: constant.StorageTypeInline,
		Body:        "旧正文",
	})

	_, err := svc.Save(ctx, "post-1", constant.ContentTypePost, "   ")
	require.Error(t, err)

	var vErr *constant.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.NotEmpty(t, vErr.Rules)

	// 校验失败时不允许发生任何写入
	assert.Equal(t, "旧正文", repo.get("post-1", constant.ContentTypePost).Body)
}

func TestContentService_SaveNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestContentService(newFakeContentRepo(), &fakeObjectProvider{})

	_, err := svc.Save(ctx, "ghost", constant.ContentTypePost, "正文")
	assert.True(t, errors.Is(err, constant.ErrNotFound))
}

func TestContentService_GetObjectBackendUnavailable(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	svc := newTestContentService(repo, &fakeObjectProvider{})

	repo.seed(&model.ContentItem{
		ID:          "post-1",
		Type:        constant.ContentTypePost,
		StorageType: constant.StorageTypeObject,
		Locator:     model.ObjectLocator{Bucket: "b", Key: "k"},
	})

	_, err := svc.Get(ctx, "post-1", constant.ContentTypePost)
	assert.True(t, errors.Is(err, constant.ErrBackendUnavailable))
}

func TestContentService_GetInlineEmptyBody(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	svc := newTestContentService(repo, &fakeObjectProvider{})

	repo.seed(&model.ContentItem{
		ID:          "post-1",
		Type:        constant.ContentTypePost,
		StorageType: constant.StorageTypeInline,
	})

	_, err := svc.Get(ctx, "post-1", constant.ContentTypePost)
	assert.True(t, errors.Is(err, constant.ErrEmptyContent))
}

func TestContentService_DeleteObjectPayload(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	provider := &fakeObjectProvider{}
	svc := newTestContentService(repo, provider)

	repo.seed(&model.ContentItem{
		ID:          "post-1",
		Type:        constant.ContentTypePost,
		StorageType: constant.StorageTypeObject,
		Locator:     model.ObjectLocator{Bucket: "b", Key: "content/post-1"},
	})

	require.NoError(t, svc.Delete(ctx, "post-1", constant.ContentTypePost))
	assert.Equal(t, []string{"content/post-1"}, provider.deleted)
}

func TestContentService_DeleteToleratesProviderFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	provider := &fakeObjectProvider{deleteErr: errors.New("网络不可达")}
	svc := newTestContentService(repo, provider)

	repo.seed(&model.ContentItem{
		ID:          "post-1",
		Type:        constant.ContentTypePost,
		StorageType: constant.StorageTypeObject,
		Locator:     model.ObjectLocator{Bucket: "b", Key: "content/post-1"},
	})

	// 行外资源清理失败只记日志，不上抛
	assert.NoError(t, svc.Delete(ctx, "post-1", constant.ContentTypePost))
}
