// Package minio архивирует события упражнений в S3-совместимое хранилище (MinIO).
package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
)

const (
	bucketCheckTimeout = 5 * time.Second
	bucketWaitTimeout  = 30 * time.Second
)

// Client представляет собой клиент для взаимодействия с MinIO (S3-совместимым хранилищем).
type Client struct {
	s3Client   *s3.Client
	uploader   *manager.Uploader
	bucketName string
	logger     *slog.Logger
}

// NewMinioClient создаёт клиент и при необходимости создаёт бакет архива.
func NewMinioClient(ctx context.Context, cfg *appconfig.Config, logger *slog.Logger) (*Client, error) {
	if cfg.MinioAccessKeyID == "" || cfg.MinioSecretAccessKey == "" || cfg.MinioBucketName == "" {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY and MINIO_BUCKET_NAME must be set when MINIO_ENDPOINT is set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.MinioRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.MinioAccessKeyID, cfg.MinioSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config for MinIO: %w", err)
	}

	endpoint := endpointURL(cfg.MinioEndpoint, cfg.MinioUseSSL)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	c := &Client{
		s3Client:   s3Client,
		uploader:   manager.NewUploader(s3Client),
		bucketName: cfg.MinioBucketName,
		logger:     logger,
	}
	if err := c.ensureBucket(ctx, cfg.MinioRegion); err != nil {
		return nil, err
	}

	logger.Info("MinIO archive ready", "endpoint", endpoint, "bucket", c.bucketName)
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context, region string) error {
	headCtx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
	defer cancel()

	_, err := c.s3Client.HeadBucket(headCtx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)})
	if err == nil {
		return nil
	}

	c.logger.Info("bucket not found, creating", "bucket", c.bucketName)

	input := &s3.CreateBucketInput{Bucket: aws.String(c.bucketName)}
	// us-east-1 нельзя передавать как LocationConstraint
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	if _, err := c.s3Client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("create bucket %q: %w", c.bucketName, err)
	}

	waiter := s3.NewBucketExistsWaiter(c.s3Client)
	if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)}, bucketWaitTimeout); err != nil {
		return fmt.Errorf("wait for bucket %q: %w", c.bucketName, err)
	}
	return nil
}

// ArchiveExerciseLogged сохраняет событие JSON-объектом в бакет.
// Реализует ports.ExerciseEventArchiver
func (c *Client) ArchiveExerciseLogged(ctx context.Context, payload payloads.ExerciseLoggedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", payloads.ExerciseLoggedEvent, err)
	}

	key := objectKey(payload)
	_, err = c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload %s to bucket %s: %w", key, c.bucketName, err)
	}

	c.logger.Debug("event archived", "bucket", c.bucketName, "key", key)
	return nil
}

// objectKey раскладывает события по пользователю и дате упражнения
func objectKey(payload payloads.ExerciseLoggedPayload) string {
	return fmt.Sprintf("%s/%s/%s/%s.json",
		payloads.ExerciseLoggedEvent,
		payload.UserID,
		payload.Date.UTC().Format("2006/01/02"),
		payload.ExerciseID,
	)
}

func endpointURL(endpoint string, useSSL bool) string {
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
