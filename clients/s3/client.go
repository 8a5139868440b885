package s3

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/taqh/notra-sub001/clients"
)

const presignExpiry = 15 * time.Minute

// S3Client implements clients.StorageClient against any S3-compatible object
// store (a custom endpoint switches to path-style addressing).
type S3Client struct {
	client        *awss3.Client
	presignClient *awss3.PresignClient
	bucket        string
	publicBaseURL string
}

// Config holds the connection settings for the object store
type Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// NewS3Client creates a new object storage client
func NewS3Client(ctx context.Context, cfg Config) (clients.StorageClient, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket cannot be empty")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:        client,
		presignClient: awss3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// PresignUpload returns a presigned PUT URL and the public URL of the object
func (c *S3Client) PresignUpload(ctx context.Context, key, contentType string) (*clients.PresignedUpload, error) {
	if key == "" {
		return nil, fmt.Errorf("object key cannot be empty")
	}

	presigned, err := c.presignClient.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, awss3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &clients.PresignedUpload{
		UploadURL: presigned.URL,
		PublicURL: c.publicBaseURL + "/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}


// DeleteObjectsWithPrefix removes every object under the given key prefix
func (c *S3Client) DeleteObjectsWithPrefix(ctx context.Context, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("object prefix cannot be empty")
	}

	paginator := awss3.NewListObjectsV2Paginator(c.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		identifiers := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, object := range page.Contents {
			identifiers = append(identifiers, types.ObjectIdentifier{Key: object.Key})
		}
		if _, err := c.client.DeleteObjects(ctx, &awss3.DeleteObjectsInput{
			Bucket: aws.String(c.bucket),
			Delete: &types.Delete{Objects: identifiers},
		}); err != nil {
			return fmt.Errorf("failed to delete objects with prefix %s: %w", prefix, err)
		}
	}

	return nil
}
