package imageproc

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
)

// makePNG 生成一张带渐变的测试图片，避免纯色导致编码结果过于退化。
func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
		wantW      int
		wantH      int
	}{
		{name: "小图不放大", w: 800, h: 600, maxW: 1920, maxH: 1080, wantW: 800, wantH: 600},
		{name: "恰好等于上限", w: 1920, h: 1080, maxW: 1920, maxH: 1080, wantW: 1920, wantH: 1080},
		{name: "两轴同时受限取更严格的比例", w: 4000, h: 3000, maxW: 1920, maxH: 1080, wantW: 1440, wantH: 1080},
		{name: "仅宽度超限", w: 3840, h: 1000, maxW: 1920, maxH: 1080, wantW: 1920, wantH: 500},
		{name: "仅高度超限", w: 1000, h: 2160, maxW: 1920, maxH: 1080, wantW: 500, wantH: 1080},
		{name: "极端细长图不会缩成零", w: 10000, h: 1, maxW: 1920, maxH: 1080, wantW: 1920, wantH: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := fitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, gotW)
			assert.Equal(t, tt.wantH, gotH)
		})
	}
}

func TestOptimize_ScalesDownAndNeverUp(t *testing.T) {
	o := NewOptimizer(Config{MaxWidth: 200, MaxHeight: 100, Quality: 80, ThumbSize: 50, ThumbQuality: 70})

	t.Run("超限图片被等比缩小", func(t *testing.T) {
		data := makePNG(t, 300, 150)
		result, err := o.Optimize(data, "image/png")
		require.NoError(t, err)

		assert.Equal(t, 200, result.Width)
		assert.Equal(t, 100, result.Height)
		w, h := decodeDims(t, result.Primary)
		assert.Equal(t, 200, w)
		assert.Equal(t, 100, h)
	})

	t.Run("小图保持原尺寸", func(t *testing.T) {
		data := makePNG(t, 120, 80)
		result, err := o.Optimize(data, "image/png")
		require.NoError(t, err)

		assert.Equal(t, 120, result.Width)
		assert.Equal(t, 80, result.Height)
	})
}

func TestOptimize_Thumbnail(t *testing.T) {
	o := NewOptimizer(Config{MaxWidth: 1920, MaxHeight: 1080, Quality: 80, ThumbSize: 50, ThumbQuality: 70})

	// 非方形输入也要产出固定边长的方形缩略图
	data := makePNG(t, 300, 100)
	result, err := o.Optimize(data, "image/png")
	require.NoError(t, err)

	w, h := decodeDims(t, result.Thumbnail)
	assert.Equal(t, 50, w)
	assert.Equal(t, 50, h)
}

func TestOptimize_Metadata(t *testing.T) {
	o := NewOptimizer(DefaultConfig())
	data := makePNG(t, 64, 64)

	result, err := o.Optimize(data, "image/png")
	require.NoError(t, err)

	assert.Greater(t, result.CompressionRatio, 0.0)
	assert.Equal(t, int64(len(result.Primary)), result.OptimizedSize)
	assert.NotEmpty(t, result.Placeholder)
}

func TestOptimize_Deterministic(t *testing.T) {
	o := NewOptimizer(DefaultConfig())
	data := makePNG(t, 96, 48)

	first, err := o.Optimize(data, "image/png")
	require.NoError(t, err)
	second, err := o.Optimize(data, "image/png")
	require.NoError(t, err)

	assert.Equal(t, first.Primary, second.Primary)
	assert.Equal(t, first.Thumbnail, second.Thumbnail)
	assert.Equal(t, first.Placeholder, second.Placeholder)
}

func TestOptimize_SVGPassthrough(t *testing.T) {
	o := NewOptimizer(DefaultConfig())
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`)

	result, err := o.Optimize(svg, "image/svg+xml")
	require.NoError(t, err)

	assert.Equal(t, svg, result.Primary)
	assert.Equal(t, svg, result.Thumbnail)
	assert.Equal(t, 0, result.Width)
	assert.Equal(t, 0, result.Height)
	assert.Equal(t, DefaultPlaceholder, result.Placeholder)
	assert.Equal(t, 1.0, result.CompressionRatio)
}

func TestOptimize_MalformedBytes(t *testing.T) {
	o := NewOptimizer(DefaultConfig())

	_, err := o.Optimize([]byte("这不是一张图片"), "image/png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, constant.ErrDecode))
}
