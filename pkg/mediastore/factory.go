package mediastore

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
)

type Options struct {
	Backend            string
	Root               string
	AwsEndpointUrl     string
	AwsRegion          string
	AwsAccessKeyId     string
	AwsSecretAccessKey string
	AwsBucket          string
	AwsPrefix          string
}

/*
New builds the store named by options.Backend, "local" or "s3". The S3
bucket is created when it does not exist yet.
*/
func New(options Options) (Store, error) {
	var (
		err error
	)

	switch strings.ToLower(options.Backend) {
	case "", "local":
		return NewLocalStore(LocalStoreConfig{Root: options.Root})

	case "s3":
		awsConfig := &awsconfig.Config{
			Endpoint:        options.AwsEndpointUrl,
			Region:          options.AwsRegion,
			AccessKeyID:     options.AwsAccessKeyId,
			SecretAccessKey: options.AwsSecretAccessKey,
		}

		retrier.Retry(func() error {
			if err = awsConfig.Load(); err != nil {
				slog.Error("failed to load AWS config. trying again", "error", err)
				return err
			}

			return nil
		})

		if err != nil {
			return nil, fmt.Errorf("error loading AWS config: %w", err)
		}

		s3Client, err := s3.NewClient(awsConfig)

		if err != nil {
			return nil, fmt.Errorf("error creating S3 client: %w", err)
		}

		store := NewS3Store(S3StoreConfig{
			Bucket:   options.AwsBucket,
			Prefix:   options.AwsPrefix,
			Region:   options.AwsRegion,
			S3Client: s3Client,
		})

		if err = store.EnsureBucketExists(); err != nil {
			return nil, err
		}

		return store, nil
	}

	return nil, fmt.Errorf("unknown media storage backend '%s'", options.Backend)
}
