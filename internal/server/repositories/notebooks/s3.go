package notebooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/gmkitchen/internal/common"
	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
)

const (
	metaVersion   = "version"
	metaUpdatedAt = "updated-at"
	keyPrefix     = "notebooks/"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// objectAPI is the part of *s3.Client the repository uses.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config points the repository at an S3-compatible bucket (MinIO works).
type S3Config struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Bucket       string
}

// S3Repository keeps each notebook as one object, notebooks/<user id>.json.
// Version and update time travel in object metadata.
type S3Repository struct {
	client objectAPI
	bucket string
}

func NewS3Repository(ctx context.Context, c S3Config) (*S3Repository, error) {
	if c.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Repository{client: client, bucket: c.Bucket}, nil
}

func objectKey(userID string) string {
	return keyPrefix + userID + ".json"
}

func (r *S3Repository) Get(ctx context.Context, userID string) (*models.Notebook, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(userID)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("s3 error: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 error: %w", err)
	}

	nb := &models.Notebook{UserID: userID, Payload: string(body)}

	if v, ok := out.Metadata[metaVersion]; ok {
		nb.Version, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("s3: bad version metadata %q: %w", v, err)
		}
	}
	if v, ok := out.Metadata[metaUpdatedAt]; ok {
		nb.UpdatedAt, err = time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("s3: bad updated-at metadata %q: %w", v, err)
		}
	}

	return nb, nil
}

func (r *S3Repository) Upsert(ctx context.Context, nb *models.Notebook) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(objectKey(nb.UserID)),
		Body:        bytes.NewReader([]byte(nb.Payload)),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			metaVersion:   strconv.FormatInt(nb.Version, 10),
			metaUpdatedAt: nb.UpdatedAt.UTC().Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return fmt.Errorf("s3 error: %w", err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
