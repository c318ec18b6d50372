/*
 * @Description: 媒体摄取服务：校验、优化、落库，以及媒体记录的查询与维护。
 * @Author: 安知鱼
 * @Date: 2025-09-03 11:25:02
 * @LastEditTime: 2026-02-22 10:14:55
 * @LastEditors: 安知鱼
 */
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/anzhiyu-c/aurora-app/internal/infra/storage"
	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/repository"
	"github.com/anzhiyu-c/aurora-app/pkg/service/imageproc"
)

// UploadInput 是一次上传请求经外层解包后的输入。
type UploadInput struct {
	OriginalName string
	MimeType     string
	Data         []byte
}

// ServeResult 是 serve 接口解析出的载荷。
// 内联资源返回解码后的字节；对象存储资源返回重定向地址。
type ServeResult struct {
	Data        []byte
	MimeType    string
	RedirectURL string
}

// IMediaService 定义了所有与媒体资源相关的业务逻辑接口。
type IMediaService interface {
	// Ingest 执行一次完整的媒体摄取：校验、优化、持久化。
	// 任何一步失败都不会留下部分记录。
	Ingest(ctx context.Context, input *UploadInput) (*model.MediaAsset, error)
	// Get 获取单条媒体记录。
	Get(ctx context.Context, publicID string) (*model.MediaAsset, error)
	// List 分页查询媒体记录。
	List(ctx context.Context, options *model.ListMediaOptions) (*model.MediaListResponse, error)
	// UpdateAlt 更新媒体记录的描述文本。
	UpdateAlt(ctx context.Context, publicID string, alt string) (*model.MediaAsset, error)
	// Delete 删除媒体记录；对象存储资源会尽力删除远端对象。
	Delete(ctx context.Context, publicID string) error
	// Serve 解析媒体载荷用于流式输出。
	Serve(ctx context.Context, publicID string, thumbnail bool) (*ServeResult, error)
}

// mediaService 是 IMediaService 接口的实现。
type mediaService struct {
	mediaRepo     repository.MediaRepository
	optimizer     *imageproc.Optimizer
	provider      storage.IObjectProvider
	maxUploadSize int64
}

// NewMediaService 是 mediaService 的构造函数。
func NewMediaService(
	mediaRepo repository.MediaRepository,
	optimizer *imageproc.Optimizer,
	provider storage.IObjectProvider,
	maxUploadSize int64,
) IMediaService {
	if maxUploadSize <= 0 {
		maxUploadSize = constant.DefaultMaxUploadSize
	}
	return &mediaService{
		mediaRepo:     mediaRepo,
		optimizer:     optimizer,
		provider:      provider,
		maxUploadSize: maxUploadSize,
	}
}

// validate 检查上传输入，返回违反的全部规则。
func (s *mediaService) validate(input *UploadInput) []string {
	var rules []string
	if len(input.Data) == 0 {
		rules = append(rules, "文件不能为空")
	}
	if int64(len(input.Data)) > s.maxUploadSize {
		rules = append(rules, fmt.Sprintf("文件大小超过上限 %d 字节", s.maxUploadSize))
	}
	if !constant.AllowedImageMimeTypes[input.MimeType] {
		rules = append(rules, fmt.Sprintf("不支持的文件类型 '%s'", input.MimeType))
	}
	return rules
}

// storedFilename 为资源生成存储用文件名，保留原始扩展名。
func storedFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return uuid.New().String() + ext
}

func (s *mediaService) Ingest(ctx context.Context, input *UploadInput) (*model.MediaAsset, error) {
	if rules := s.validate(input); len(rules) > 0 {
		return nil, constant.NewValidationError(rules...)
	}

	// 解码失败会在这里中止，数据库不会出现部分记录
	result, err := s.optimizer.Optimize(input.Data, input.MimeType)
	if err != nil {
		return nil, err
	}

	// 摄取时一律选择内联存储；对象存储是之后通过迁移才会到达的状态
	asset := &model.MediaAsset{
		Filename:         storedFilename(input.OriginalName),
		OriginalName:     input.OriginalName,
		MimeType:         input.MimeType,
		Size:             int64(len(input.Data)),
		StorageType:      constant.StorageTypeInline,
		PrimaryEncoded:   base64.StdEncoding.EncodeToString(result.Primary),
		ThumbnailEncoded: base64.StdEncoding.EncodeToString(result.Thumbnail),
		Width:            result.Width,
		Height:           result.Height,
		Placeholder:      result.Placeholder,
		CompressionRatio: result.CompressionRatio,
		OptimizedSize:    result.OptimizedSize,
	}

	if err := s.mediaRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	log.Printf("[媒体服务] 摄取完成: %s (%s, %d -> %d 字节, %dx%d)",
		asset.ID, asset.MimeType, asset.Size, asset.OptimizedSize, asset.Width, asset.Height)
	return asset, nil
}

func (s *mediaService) Get(ctx context.Context, publicID string) (*model.MediaAsset, error) {
	return s.mediaRepo.FindByID(ctx, publicID)
}

func (s *mediaService) List(ctx context.Context, options *model.ListMediaOptions) (*model.MediaListResponse, error) {
	assets, total, err := s.mediaRepo.List(ctx, options)
	if err != nil {
		return nil, err
	}
	list := make([]*model.MediaAssetResponse, 0, len(assets))
	for _, a := range assets {
		list = append(list, model.NewMediaAssetResponse(a))
	}
	page := options.Page
	if page < 1 {
		page = 1
	}
	return &model.MediaListResponse{List: list, Total: total, Page: page}, nil
}

func (s *mediaService) UpdateAlt(ctx context.Context, publicID string, alt string) (*model.MediaAsset, error) {
	return s.mediaRepo.UpdateAlt(ctx, publicID, alt)
}

// Delete 删除媒体记录。对象存储的远端清理是尽力而为：
// 删不掉只记日志，不让归属记录的删除失败。
func (s *mediaService) Delete(ctx context.Context, publicID string) error {
	asset, err := s.mediaRepo.FindByID(ctx, publicID)
	if err != nil {
		return err
	}

	if err := s.mediaRepo.Delete(ctx, publicID); err != nil {
		return err
	}

	if asset.StorageType == constant.StorageTypeObject && asset.ObjectKey != "" {
		if err := s.provider.Delete(ctx, asset.ObjectKey); err != nil {
			log.Printf("[媒体服务] 警告: 删除远端对象 '%s' 失败: %v", asset.ObjectKey, err)
		}
	}
	return nil
}

func (s *mediaService) Serve(ctx context.Context, publicID string, thumbnail bool) (*ServeResult, error) {
	asset, err := s.mediaRepo.FindByID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	switch asset.StorageType {
	case constant.StorageTypeInline:
		encoded := asset.PrimaryEncoded
		if thumbnail {
			encoded = asset.ThumbnailEncoded
		}
		if encoded == "" {
			return nil, fmt.Errorf("%w: 媒体记录 '%s' 的内联载荷缺失", constant.ErrEmptyContent, publicID)
		}
		data, decErr := base64.StdEncoding.DecodeString(encoded)
		if decErr != nil {
			return nil, fmt.Errorf("解码媒体记录 '%s' 的内联载荷失败: %w", publicID, decErr)
		}
		return &ServeResult{Data: data, MimeType: serveMimeType(asset.MimeType)}, nil

	case constant.StorageTypeObject:
		if asset.ExternalURL == "" {
			return nil, fmt.Errorf("%w: 媒体记录 '%s' 缺少外部地址", constant.ErrEmptyContent, publicID)
		}
		return &ServeResult{RedirectURL: asset.ExternalURL}, nil

	default:
		return nil, fmt.Errorf("%w: 媒体记录 '%s' 的存储类型 '%s' 无效",
			constant.ErrInternalServer, publicID, asset.StorageType)
	}
}

// serveMimeType 把重编码后的实际输出类型映射回响应头。
// webp/bmp 输入在优化时已被重编码为 JPEG。
func serveMimeType(originalMime string) string {
	switch originalMime {
	case "image/png", "image/gif", "image/svg+xml":
		return originalMime
	default:
		return "image/jpeg"
	}
}
