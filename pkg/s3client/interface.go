package s3client

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
)

// S3Interface defines the operations report sinks need from an S3 client
type S3Interface interface {
	UploadFile(ctx context.Context, reader io.Reader, objectKey string, size int64, metadata map[string]string, contentType string) error
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
	GetBucketName() string
}

// objectAPI is the subset of *minio.Client the Client calls
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

var _ objectAPI = (*minio.Client)(nil)
var _ S3Interface = (*Client)(nil)
