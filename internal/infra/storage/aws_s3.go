/*
 * @Description: AWS S3 对象存储提供者实现（使用aws-sdk-go-v2）
 * @Author: 安知鱼
 * @Date: 2025-09-03 09:40:22
 * @LastEditTime: 2026-02-21 14:02:51
 * @LastEditors: 安知鱼
 */
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/anzhiyu-c/aurora-app/pkg/config"
)

// S3Provider 实现了 IObjectProvider 接口，用于处理与 S3 兼容对象存储的所有交互。
type S3Provider struct {
	endpoint  string
	region    string
	bucket    string
	accessKey string
	secretKey string
	publicURL string

	mu     sync.Mutex
	client *s3.Client
}

// NewS3Provider 从配置构造 S3 提供者。
// 配置不完整时仍会返回实例，实际调用时统一报 ErrNotConfigured，
// 这样上层的装配逻辑不需要区分"有没有配对象存储"。
func NewS3Provider(cfg *appconfig.Config) *S3Provider {
	return &S3Provider{
		endpoint:  cfg.GetString(appconfig.KeyObjectEndpoint),
		region:    cfg.GetString(appconfig.KeyObjectRegion),
		bucket:    cfg.GetString(appconfig.KeyObjectBucket),
		accessKey: cfg.GetString(appconfig.KeyObjectAccessKey),
		secretKey: cfg.GetString(appconfig.KeyObjectSecretKey),
		publicURL: cfg.GetString(appconfig.KeyObjectPublicURL),
	}
}

// getClient 懒加载地创建 S3 客户端。
func (p *S3Provider) getClient(ctx context.Context) (*s3.Client, error) {
	if p.bucket == "" || p.accessKey == "" || p.secretKey == "" {
		return nil, ErrNotConfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}

	region := p.region
	if region == "" {
		region = "us-east-1" // 默认区域
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.accessKey,
			p.secretKey,
			"",
		)),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Printf("[S3] 创建配置失败: %v", err)
		return nil, fmt.Errorf("创建S3配置失败: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if p.endpoint != "" {
			o.BaseEndpoint = aws.String(p.endpoint)
			o.UsePathStyle = true // 自定义endpoint通常需要path-style
		}
	})

	log.Printf("[S3] 成功创建客户端 - 区域: %s, 桶: %s", region, p.bucket)
	p.client = client
	return client, nil
}

// Put 将字节写入对象存储。
func (p *S3Provider) Put(ctx context.Context, key string, data []byte, contentType string) (*ObjectInfo, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("上传对象 '%s' 到S3失败: %w", key, err)
	}

	return &ObjectInfo{
		Bucket: p.bucket,
		Key:    key,
		URL:    p.PublicURL(key),
	}, nil
}

// Get 读取对象的全部字节。
func (p *S3Provider) Get(ctx context.Context, key string) ([]byte, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}

	output, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("对象 '%s' 不存在: %w", key, err)
		}
		return nil, fmt.Errorf("从S3读取对象 '%s' 失败: %w", key, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("读取对象 '%s' 的响应体失败: %w", key, err)
	}
	return data, nil
}

// Delete 删除远端对象。对象本就不存在时 S3 返回成功，符合幂等清理的语义。
func (p *S3Provider) Delete(ctx context.Context, key string) error {
	client, err := p.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("删除S3对象 '%s' 失败: %w", key, err)
	}
	return nil
}

// Exists 检查对象是否存在。
func (p *S3Provider) Exists(ctx context.Context, key string) (bool, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return false, err
	}

	_, err = client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("检查S3对象 '%s' 是否存在失败: %w", key, err)
	}
	return true, nil
}

// PublicURL 返回对象的公开访问地址。
func (p *S3Provider) PublicURL(key string) string {
	if p.publicURL != "" {
		return strings.TrimSuffix(p.publicURL, "/") + "/" + strings.TrimPrefix(key, "/")
	}
	if p.endpoint != "" {
		return strings.TrimSuffix(p.endpoint, "/") + "/" + p.bucket + "/" + strings.TrimPrefix(key, "/")
	}
	region := p.region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, region, strings.TrimPrefix(key, "/"))
}

// BucketName 返回当前配置的存储桶名。
func (p *S3Provider) BucketName() string {
	return p.bucket
}
