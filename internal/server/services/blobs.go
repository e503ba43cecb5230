package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/logging"
	sc "github.com/dmitrijs2005/campushire/internal/server/config"
)

const (
	uploadURLValidity   = 15 * time.Minute
	downloadURLValidity = 7 * 24 * time.Hour
	resumesPrefix       = "resumes/"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) error {
		_, err := c.DeleteObject(ctx, in)
		return err
	}
)

// BlobService hands out presigned S3 URLs for user-owned blobs.
type BlobService struct {
	config *sc.Config
	logger logging.Logger
}

func NewBlobService(config *sc.Config, logger logging.Logger) *BlobService {
	return &BlobService{config: config, logger: logger}
}

// checkBlobPath allows "resumes/{uid}.pdf" and anything under "users/{uid}/".
func checkBlobPath(userID, key string) error {
	dp, err := parsePath(key)
	if err != nil {
		return err
	}
	key = dp.String()
	if key == resumesPrefix+userID+".pdf" {
		return nil
	}
	if len(dp) >= 3 && dp.ownedBy(userID) {
		return nil
	}
	if strings.HasPrefix(key, resumesPrefix) || dp[0] == common.CollectionUsers {
		return common.ErrPermissionDenied
	}
	return common.ErrInvalidPath
}

func (s *BlobService) getS3Client() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *BlobService) getPresignClient() (*s3.PresignClient, error) {
	client, err := s.getS3Client()
	if err != nil {
		return nil, err
	}
	return newS3PresignClient(client), nil
}

// PresignUpload returns a PUT URL for key, valid for 15 minutes.
func (s *BlobService) PresignUpload(ctx context.Context, userID, key string) (string, error) {
	if err := checkBlobPath(userID, key); err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentTypeFor(key)),
	}, s3.WithPresignExpires(uploadURLValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// PresignDownload returns a GET URL for key, valid for seven days.
func (s *BlobService) PresignDownload(ctx context.Context, userID, key string) (string, error) {
	if err := checkBlobPath(userID, key); err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(downloadURLValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Delete removes the object; deleting a missing object is not an error.
func (s *BlobService) Delete(ctx context.Context, userID, key string) error {
	if err := checkBlobPath(userID, key); err != nil {
		return err
	}

	client, err := s.getS3Client()
	if err != nil {
		return err
	}

	if err := deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	s.logger.Info(ctx, "blob deleted", "key", key)
	return nil
}

func contentTypeFor(key string) string {
	if strings.HasSuffix(strings.ToLower(key), ".pdf") {
		return "application/pdf"
	}
	return "application/octet-stream"
}
