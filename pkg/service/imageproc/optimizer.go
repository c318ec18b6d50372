/*
 * @Description: 图片优化器：约束缩放主图、方形裁切缩略图、感知哈希占位符与压缩统计。
 *               给定相同的字节、MIME 类型与配置，输出是确定的；除解码失败外不会报错。
 * @Author: 安知鱼
 * @Date: 2025-09-03 10:40:19
 * @LastEditTime: 2026-02-22 09:36:47
 * @LastEditors: 安知鱼
 */
package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"math"

	"github.com/buckket/go-blurhash"
	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
)

// DefaultPlaceholder 是占位符生成失败或输入为矢量图时使用的固定占位符。
// 占位符只是体验上的锦上添花，它的失败不允许拖垮整个摄取操作。
const DefaultPlaceholder = "L6Pj0^jE.AyE_3t7t7R**0o#DgR4"

// 占位符的采样网格与分量数
const (
	placeholderGridSize   = 32
	placeholderComponents = 4
)

// Config 是优化器的全部可调参数。
type Config struct {
	MaxWidth     int // 主图最大宽度
	MaxHeight    int // 主图最大高度
	Quality      int // 主图 JPEG 重编码质量 (0-100)
	ThumbSize    int // 缩略图边长（方形）
	ThumbQuality int // 缩略图 JPEG 质量
}

// DefaultConfig 返回默认的优化参数。
func DefaultConfig() Config {
	return Config{
		MaxWidth:     1920,
		MaxHeight:    1080,
		Quality:      80,
		ThumbSize:    200,
		ThumbQuality: 70,
	}
}

// Result 封装了一次优化的全部产出。
type Result struct {
	Primary          []byte  // 缩放并重编码后的主图字节
	Thumbnail        []byte  // 方形裁切缩略图字节
	Width            int     // 缩放后的像素宽度，矢量格式为 0
	Height           int     // 缩放后的像素高度，矢量格式为 0
	Placeholder      string  // 感知哈希占位符
	CompressionRatio float64 // 主图字节数 / 原始字节数，恒为正，可能大于 1
	OptimizedSize    int64   // 主图字节长度
}

// Optimizer 是无状态的图片优化器，输出只取决于 (字节, MIME类型, 配置)。
type Optimizer struct {
	cfg Config
}

// NewOptimizer 是 Optimizer 的构造函数。
func NewOptimizer(cfg Config) *Optimizer {
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = 1920
	}
	if cfg.MaxHeight <= 0 {
		cfg.MaxHeight = 1080
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = 80
	}
	if cfg.ThumbSize <= 0 {
		cfg.ThumbSize = 200
	}
	if cfg.ThumbQuality <= 0 || cfg.ThumbQuality > 100 {
		cfg.ThumbQuality = 70
	}
	return &Optimizer{cfg: cfg}
}

// Optimize 对一份已通过大小与类型校验的图片字节执行优化。
// 矢量格式（SVG）不做栅格化处理：没有渲染器时栅格化并不安全，
// 因此主图与缩略图原样透传，尺寸报告为 0，占位符为固定常量。
func (o *Optimizer) Optimize(data []byte, mimeType string) (*Result, error) {
	if mimeType == "image/svg+xml" {
		return &Result{
			Primary:          data,
			Thumbnail:        data,
			Width:            0,
			Height:           0,
			Placeholder:      DefaultPlaceholder,
			CompressionRatio: 1.0,
			OptimizedSize:    int64(len(data)),
		}, nil
	}

	// 打开并解码源图片，自动处理方向（例如手机拍摄的照片）
	srcImage, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: 无法解析图片字节 (%s): %v", constant.ErrDecode, mimeType, err)
	}

	bounds := srcImage.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()

	// 等比例约束缩放，绝不放大
	targetWidth, targetHeight := fitWithin(srcWidth, srcHeight, o.cfg.MaxWidth, o.cfg.MaxHeight)
	primaryImage := srcImage
	if targetWidth != srcWidth || targetHeight != srcHeight {
		primaryImage = imaging.Resize(srcImage, targetWidth, targetHeight, imaging.Lanczos)
	}

	format := encodeFormat(mimeType)
	primaryBytes, err := encodeImage(primaryImage, format, o.cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("重编码主图失败: %w", err)
	}

	// 缩略图使用 cover/居中裁切而非等比缩放，保证固定方形
	thumbImage := imaging.Fill(srcImage, o.cfg.ThumbSize, o.cfg.ThumbSize, imaging.Center, imaging.Lanczos)
	thumbBytes, err := encodeImage(thumbImage, format, o.cfg.ThumbQuality)
	if err != nil {
		return nil, fmt.Errorf("编码缩略图失败: %w", err)
	}

	return &Result{
		Primary:          primaryBytes,
		Thumbnail:        thumbBytes,
		Width:            targetWidth,
		Height:           targetHeight,
		Placeholder:      o.placeholder(srcImage),
		CompressionRatio: float64(len(primaryBytes)) / float64(len(data)),
		OptimizedSize:    int64(len(primaryBytes)),
	}, nil
}

// fitWithin 计算等比例约束缩放后的目标尺寸。
// 取两个轴向缩放比中更严格的那个，保证两个上限同时被满足；比例上限为 1（不放大）。
func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	scale := math.Min(
		float64(maxWidth)/float64(width),
		float64(maxHeight)/float64(height),
	)
	if scale >= 1 {
		return width, height
	}

	targetWidth := int(math.Round(float64(width) * scale))
	targetHeight := int(math.Round(float64(height) * scale))
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}
	// 取整可能让某个轴超出上限一个像素，收回来
	if targetWidth > maxWidth {
		targetWidth = maxWidth
	}
	if targetHeight > maxHeight {
		targetHeight = maxHeight
	}
	return targetWidth, targetHeight
}

// encodeFormat 决定重编码的输出格式。
// PNG 保持无损与透明通道，GIF 保持调色板动图语义，其余（含 webp/bmp，
// 纯 Go 没有对应编码器）统一输出 JPEG。
func encodeFormat(mimeType string) imaging.Format {
	switch mimeType {
	case "image/png":
		return imaging.PNG
	case "image/gif":
		return imaging.GIF
	default:
		return imaging.JPEG
	}
}

// encodeImage 把图像编码为指定格式的字节。质量参数只对 JPEG 生效。
func encodeImage(img image.Image, format imaging.Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if format == imaging.JPEG {
		err = imaging.Encode(&buf, img, format, imaging.JPEGQuality(quality))
	} else {
		err = imaging.Encode(&buf, img, format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// placeholder 计算紧凑的视觉占位符：降采样到固定网格后做 4x4 分量的感知哈希。
// 任何一步失败都回落到固定占位符，而不是让整个优化失败。
func (o *Optimizer) placeholder(img image.Image) string {
	grid := imaging.Resize(img, placeholderGridSize, placeholderGridSize, imaging.Lanczos)
	// imaging.Resize 的返回值是 *image.NRGBA，带透明通道
	hash, err := blurhash.Encode(placeholderComponents, placeholderComponents, grid)
	if err != nil {
		log.Printf("[图片优化器] 生成占位符失败，使用默认占位符: %v", err)
		return DefaultPlaceholder
	}
	return hash
}
