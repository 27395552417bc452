package mediastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/getoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3StoreConfig struct {
	Bucket   string
	Prefix   string
	Region   string
	S3Client s3.S3Client
}

type S3Store struct {
	bucket   string
	prefix   string
	region   string
	s3Client s3.S3Client
}

func NewS3Store(config S3StoreConfig) S3Store {
	return S3Store{
		bucket:   config.Bucket,
		prefix:   strings.Trim(config.Prefix, "/"),
		region:   config.Region,
		s3Client: config.S3Client,
	}
}

/*
EnsureBucketExists creates the media bucket when it is missing.
*/
func (s S3Store) EnsureBucketExists() error {
	exists, err := s.s3Client.BucketExists(s.bucket)

	if err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", s.bucket, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", s.bucket)

	if err = s.s3Client.CreateBucket(s.bucket, createbucketoptions.WithRegion(s.region)); err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", s.bucket, err)
	}

	return nil
}

func (s S3Store) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	storedPath, err := s.PathForKey(key)
	if err != nil {
		return "", err
	}

	if _, err = s.s3Client.Put(s.bucket, storedPath, r); err != nil {
		return "", fmt.Errorf("error uploading '%s' to S3: %w", storedPath, err)
	}

	return storedPath, nil
}

func (s S3Store) Exists(ctx context.Context, storedPath string) bool {
	if storedPath == "" {
		return false
	}

	stat, err := s.s3Client.StatObject(s.bucket, storedPath)

	if err != nil {
		slog.Log(ctx, statErrorLevel(err), "error retrieving metadata for stored image", "key", storedPath, "error", err)
		return false
	}

	return stat != nil
}

/*
statErrorLevel keeps missing objects out of the error log. A cache row
whose object is gone is an ordinary state.
*/
func statErrorLevel(err error) slog.Level {
	var (
		notFound  *types.NotFound
		noSuchKey *types.NoSuchKey
	)

	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return slog.LevelDebug
	}

	return slog.LevelWarn
}

func (s S3Store) Open(ctx context.Context, storedPath string) (Object, error) {
	if !s.Exists(ctx, storedPath) {
		return Object{}, fmt.Errorf("%s: %w", storedPath, ErrNotFound)
	}

	object, err := s.s3Client.Get(
		s.bucket,
		storedPath,
		getoptions.WithContext(ctx),
	)

	if err != nil {
		return Object{}, fmt.Errorf("error getting '%s' from S3: %w", storedPath, err)
	}

	return Object{
		Body:        object.Body,
		ContentType: object.ContentType,
		Size:        int64(object.Size),
	}, nil
}

func (s S3Store) Delete(ctx context.Context, storedPath string) error {
	if _, err := s.s3Client.Delete(s.bucket, []string{storedPath}); err != nil {
		return fmt.Errorf("error deleting '%s' from S3: %w", storedPath, err)
	}

	return nil
}

/*
URL returns the path served by the website's media handler, which streams
the object from the bucket.
*/
func (s S3Store) URL(storedPath string) string {
	key := strings.TrimPrefix(strings.TrimPrefix(storedPath, s.prefix), "/")
	return "/media/" + key
}

func (s S3Store) PathForKey(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	if s.prefix == "" {
		return cleaned, nil
	}

	return path.Join(s.prefix, cleaned), nil
}

func (s S3Store) List(ctx context.Context) ([]string, error) {
	result := []string{}

	response, err := s.s3Client.List(
		s.bucket,
		s.prefix,
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			return IsMediaFile(aws.ToString(obj.Key))
		}),
	)

	if err != nil {
		return result, fmt.Errorf("error listing media objects: %w", err)
	}

	for _, obj := range response.Objects {
		result = append(result, obj.Key)
	}

	return result, nil
}
