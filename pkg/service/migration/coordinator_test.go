package migration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/repository"
	"github.com/anzhiyu-c/aurora-app/pkg/service/content"
	"github.com/anzhiyu-c/aurora-app/pkg/service/utility"
)

// fakeContentRepo 是内存实现的内容仓库。
type fakeContentRepo struct {
	mu    sync.Mutex
	items map[string]*model.ContentItem
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{items: make(map[string]*model.ContentItem)}
}

func key(publicID string, contentType constant.ContentType) string {
	return string(contentType) + ":" + publicID
}

func (r *fakeContentRepo) seed(item *model.ContentItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[key(item.ID, item.Type)] = &cp
}

func (r *fakeContentRepo) get(publicID string, contentType constant.ContentType) *model.ContentItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[key(publicID, contentType)]; ok {
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
	item, ok := r.items[key(publicID, contentType)]
	if !ok {
		return fmt.Errorf("%w: 条目 '%s' 不存在", constant.ErrNotFound, publicID)
	}
	item.StorageType = storageType
	item.Body = body
	item.Locator = locator
	return nil
}

func (r *fakeContentRepo) CountByStorageType(ctx context.Context) (map[constant.StorageType]int, error) {
	return nil, nil
}

// fakeStaleRepo 记录登记下来的残留载荷。
type fakeStaleRepo struct {
	mu      sync.Mutex
	entries []*repository.StalePayload
}

func (r *fakeStaleRepo) Create(ctx context.Context, payload *repository.StalePayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, payload)
	return nil
}

func (r *fakeStaleRepo) ListAll(ctx context.Context) ([]*repository.StalePayload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, nil
}

func (r *fakeStaleRepo) Delete(ctx context.Context, id uint) error { return nil }

// fakeObjectBackend 是可用的对象后端替身：载荷存进内存，指向翻转走仓库，
// 行为与内联后端的原子契约保持一致。可注入写入与删除失败。
type fakeObjectBackend struct {
	repo      *fakeContentRepo
	mu        sync.Mutex
	payloads  map[string]string
	saveErr   error
	deleteErr error
}

func newFakeObjectBackend(repo *fakeContentRepo) *fakeObjectBackend {
	return &fakeObjectBackend{repo: repo, payloads: make(map[string]string)}
}

func (b *fakeObjectBackend) Type() constant.StorageType { return constant.StorageTypeObject }

func (b *fakeObjectBackend) Save(ctx context.Context, item *model.ContentItem, body string) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	locator := model.ObjectLocator{
		Bucket: "test-bucket",
		Key:    "content/" + string(item.Type) + "/" + item.ID,
	}
	b.mu.Lock()
	b.payloads[locator.Key] = body
	b.mu.Unlock()
	return b.repo.UpdateStorage(ctx, item.ID, item.Type, constant.StorageTypeObject, "", locator)
}

func (b *fakeObjectBackend) Get(ctx context.Context, item *model.ContentItem) (string, error) {
	if item.StorageType != constant.StorageTypeObject {
		return "", constant.ErrStorageTypeMismatch
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	body, ok := b.payloads[item.Locator.Key]
	if !ok {
		return "", constant.ErrEmptyContent
	}
	return body, nil
}

func (b *fakeObjectBackend) Delete(ctx context.Context, item *model.ContentItem) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.payloads, item.Locator.Key)
	return nil
}

func newTestCoordinator(repo *fakeContentRepo, stale *fakeStaleRepo, object content.StorageBackend) *Coordinator {
	resolver := content.NewBackendFactory(content.NewInlineBackend(repo), object)
	return NewCoordinator(repo, stale, resolver, utility.NewItemLocker())
}

func seedInline(repo *fakeContentRepo, id, body string) {
	repo.seed(&model.ContentItem{
		ID:          id,
		Type:        constant.ContentTypePost,
		StorageType: constant.StorageTypeInline,
		Body:        body,
	})
}

func TestCoordinator_MigrateSameTypeIsNoop(t *testing.T) {
	repo := newFakeContentRepo()
	c := newTestCoordinator(repo, &fakeStaleRepo{}, newFakeObjectBackend(repo))

	// from == to 连条目都不查询
	err := c.Migrate(context.Background(), "ghost", constant.ContentTypePost,
		constant.StorageTypeInline, constant.StorageTypeInline)
	assert.NoError(t, err)
}

func TestCoordinator_MigrateInlineToObject(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	object := newFakeObjectBackend(repo)
	c := newTestCoordinator(repo, &fakeStaleRepo{}, object)

	seedInline(repo, "post-1", "# 正文内容")

	err := c.Migrate(ctx, "post-1", constant.ContentTypePost,
		constant.StorageTypeInline, constant.StorageTypeObject)
	require.NoError(t, err)

	stored := repo.get("post-1", constant.ContentTypePost)
	assert.Equal(t, constant.StorageTypeObject, stored.StorageType)
	assert.Empty(t, stored.Body)
	assert.NotEmpty(t, stored.Locator.Key)

	// 载荷逐字节等于迁移前的正文
	assert.Equal(t, "# 正文内容", object.payloads[stored.Locator.Key])
}

func TestCoordinator_FailedTargetWriteLeavesSourceIntact(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	object := newFakeObjectBackend(repo)
	object.saveErr = fmt.Errorf("%w: 对象存储后端的写入尚未实现", constant.ErrBackendUnavailable)
	c := newTestCoordinator(repo, &fakeStaleRepo{}, object)

	seedInline(repo, "post-1", "# 正文内容")

	err := c.Migrate(ctx, "post-1", constant.ContentTypePost,
		constant.StorageTypeInline, constant.StorageTypeObject)
	require.Error(t, err)
	assert.True(t, errors.Is(err, constant.ErrMigration))
	assert.True(t, errors.Is(err, constant.ErrBackendUnavailable))

	// 记录保持原状，可安全重试
	stored := repo.get("post-1", constant.ContentTypePost)
	assert.Equal(t, constant.StorageTypeInline, stored.StorageType)
	assert.Equal(t, "# 正文内容", stored.Body)
}

func TestCoordinator_MigrateSourceMismatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	c := newTestCoordinator(repo, &fakeStaleRepo{}, newFakeObjectBackend(repo))

	seedInline(repo, "post-1", "# 正文内容")

	err := c.Migrate(ctx, "post-1", constant.ContentTypePost,
		constant.StorageTypeObject, constant.StorageTypeInline)
	assert.True(t, errors.Is(err, constant.ErrStorageTypeMismatch))
}

func TestCoordinator_CleanupFailureIsToleratedAndRegistered(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	stale := &fakeStaleRepo{}
	object := newFakeObjectBackend(repo)
	c := newTestCoordinator(repo, stale, object)

	// 先把条目迁到对象端，再注入删除失败迁回来
	seedInline(repo, "post-1", "# 正文内容")
	require.NoError(t, c.Migrate(ctx, "post-1", constant.ContentTypePost,
		constant.StorageTypeInline, constant.StorageTypeObject))
	staleKey := repo.get("post-1", constant.ContentTypePost).Locator.Key

	object.deleteErr = errors.New("网络不可达")
	err := c.Migrate(ctx, "post-1", constant.ContentTypePost,
		constant.StorageTypeObject, constant.StorageTypeInline)
	require.NoError(t, err)

	// 迁移本身成功：记录指向内联且正文完好
	stored := repo.get("post-1", constant.ContentTypePost)
	assert.Equal(t, constant.StorageTypeInline, stored.StorageType)
	assert.Equal(t, "# 正文内容", stored.Body)

	// 清理失败被登记，交给后台任务重试
	require.Len(t, stale.entries, 1)
	assert.Equal(t, "post-1", stale.entries[0].ItemID)
	assert.Equal(t, staleKey, stale.entries[0].Key)
}

func TestCoordinator_MigrateToTargetAlreadyThere(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	c := newTestCoordinator(repo, &fakeStaleRepo{}, newFakeObjectBackend(repo))

	seedInline(repo, "post-1", "# 正文内容")

	err := c.MigrateToTarget(ctx, model.MigrateItem{ID: "post-1", Type: constant.ContentTypePost},
		constant.StorageTypeInline)
	require.NoError(t, err)
	assert.Equal(t, "# 正文内容", repo.get("post-1", constant.ContentTypePost).Body)
}

func TestCoordinator_BatchMigrateSettlesAllItems(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	object := newFakeObjectBackend(repo)
	c := newTestCoordinator(repo, &fakeStaleRepo{}, object)

	items := make([]model.MigrateItem, 0, 5)
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("post-%d", i)
		seedInline(repo, id, "正文 "+id)
		items = append(items, model.MigrateItem{ID: id, Type: constant.ContentTypePost})
	}
	// 两条不存在的条目：失败不中断整批
	items = append(items,
		model.MigrateItem{ID: "ghost-1", Type: constant.ContentTypePost},
		model.MigrateItem{ID: "ghost-2", Type: constant.ContentTypePost},
	)

	result, err := c.BatchMigrate(ctx, items, constant.StorageTypeObject, 2)
	require.NoError(t, err)

	// 每个输入条目恰好被结算一次
	assert.Equal(t, 3, result.Success)
	assert.Len(t, result.Failed, 2)
	assert.Equal(t, len(items), result.Success+len(result.Failed))

	failedIDs := make([]string, 0, len(result.Failed))
	for _, f := range result.Failed {
		failedIDs = append(failedIDs, f.ID)
	}
	assert.ElementsMatch(t, []string{"ghost-1", "ghost-2"}, failedIDs)

	for i := 1; i <= 3; i++ {
		stored := repo.get(fmt.Sprintf("post-%d", i), constant.ContentTypePost)
		assert.Equal(t, constant.StorageTypeObject, stored.StorageType)
	}
}

func TestCoordinator_BatchMigrateDefaultBatchSize(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContentRepo()
	c := newTestCoordinator(repo, &fakeStaleRepo{}, newFakeObjectBackend(repo))

	seedInline(repo, "post-1", "正文")

	// batchSize <= 0 回落到默认批次大小
	result, err := c.BatchMigrate(ctx, []model.MigrateItem{
		{ID: "post-1", Type: constant.ContentTypePost},
	}, constant.StorageTypeObject, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
}
