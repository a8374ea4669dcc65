// Package storage 对象存储访问层
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage 对象存储接口,按 key 上传、删除并推导持久 URL
type ObjectStorage interface {
	// Put 上传对象,返回持久 URL
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Remove 按 key 删除对象
	Remove(ctx context.Context, key string) error
	// KeyFromURL 从持久 URL 还原对象 key,无法识别时返回 false
	KeyFromURL(url string) (string, bool)
}

// MinioStorage 基于 S3 兼容存储的实现
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStorage 创建对象存储客户端
// publicURL 是对外可达的访问前缀,留空时用 endpoint 拼接
func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, publicURL string) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	base := publicURL
	if base == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, endpoint)
	}
	return &MinioStorage{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(base, "/"),
	}, nil
}

// Put 上传对象
func (s *MinioStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key), nil
}

// Remove 删除对象
func (s *MinioStorage) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// KeyFromURL 从 URL 还原 key
func (s *MinioStorage) KeyFromURL(url string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", s.baseURL, s.bucket)
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
