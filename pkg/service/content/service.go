/*
 * @Description: 内容存储服务：在按记录选定的后端上执行正文的保存、读取与清理。
 * @Author: 安知鱼
 * @Date: 2025-09-03 15:40:55
 * @LastEditTime: 2026-02-22 11:45:12
 * @LastEditors: 安知鱼
 */
package content

import (
	"context"
	"log"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/repository"
	"github.com/anzhiyu-c/aurora-app/pkg/service/utility"
)

// Service 定义了内容存储的业务逻辑接口。
type Service interface {
	// Save 校验并写入正文。后端由条目当前的 storageType 决定。
	// 校验失败返回携带全部违反规则的 ValidationError，且不发生任何写入；
	// 成功时返回的 SaveResult 可能携带软警告。
	Save(ctx context.Context, publicID string, contentType constant.ContentType, body string) (*model.SaveResult, error)

	// Get 读取正文。条目不存在返回 ErrNotFound。
	Get(ctx context.Context, publicID string, contentType constant.ContentType) (string, error)

	// Delete 清理条目在当前后端的行外资源。清理失败只记日志，不上抛。
	Delete(ctx context.Context, publicID string, contentType constant.ContentType) error
}

type contentService struct {
	contentRepo repository.ContentRepository
	resolver    BackendResolver
	validator   *Validator
	locker      *utility.ItemLocker
}

// NewContentService 是 contentService 的构造函数。
func NewContentService(
	contentRepo repository.ContentRepository,
	resolver BackendResolver,
	validator *Validator,
	locker *utility.ItemLocker,
) Service {
	return &contentService{
		contentRepo: contentRepo,
		resolver:    resolver,
		validator:   validator,
		locker:      locker,
	}
}

func (s *contentService) Save(ctx context.Context, publicID string, contentType constant.ContentType, body string) (*model.SaveResult, error) {
	rules, warnings := s.validator.Validate(body)
	if len(rules) > 0 {
		return nil, constant.NewValidationError(rules...)
	}

	// 同一条目的保存与迁移串行化，避免并发写入者之间的更新丢失
	s.locker.Lock(string(contentType), publicID)
	defer s.locker.Unlock(string(contentType), publicID)

	item, err := s.contentRepo.FindByID(ctx, publicID, contentType)
	if err != nil {
		return nil, err
	}

	backend, err := s.resolver.Resolve(item.StorageType)
	if err != nil {
		return nil, err
	}

	if err := backend.Save(ctx, item, body); err != nil {
		return nil, err
	}
	return &model.SaveResult{Warnings: warnings}, nil
}

func (s *contentService) Get(ctx context.Context, publicID string, contentType constant.ContentType) (string, error) {
	item, err := s.contentRepo.FindByID(ctx, publicID, contentType)
	if err != nil {
		return "", err
	}

	backend, err := s.resolver.Resolve(item.StorageType)
	if err != nil {
		return "", err
	}
	return backend.Get(ctx, item)
}

func (s *contentService) Delete(ctx context.Context, publicID string, contentType constant.ContentType) error {
	item, err := s.contentRepo.FindByID(ctx, publicID, contentType)
	if err != nil {
		return err
	}

	backend, err := s.resolver.Resolve(item.StorageType)
	if err != nil {
		return err
	}

	if err := backend.Delete(ctx, item); err != nil {
		// 行外资源的清理是尽力而为，不让归属条目的删除失败
		log.Printf("[内容服务] 警告: 清理条目 '%s' (类型 %s) 的行外资源失败: %v", publicID, contentType, err)
	}
	return nil
}
