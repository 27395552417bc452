package cli

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

/*
Settings use the same environment variable names as the website, so one
.env file serves both.
*/
type Config struct {
	AwsAccessKeyId       string
	AwsBucket            string
	AwsEndpointUrl       string
	AwsMediaPrefix       string
	AwsRegion            string
	AwsSecretAccessKey   string
	CarouselFolder       string
	DriveCredentialsFile string
	DSN                  string
	LogFile              string
	LogLevel             string
	MaxSyncWorkers       int
	MediaRoot            string
	MediaStorage         string
	PublicRootFolder     string
}

func setDefaults() {
	viper.SetDefault("aws_endpoint_url", "http://localhost:4566")
	viper.SetDefault("aws_region", "us-central-1")
	viper.SetDefault("aws_bucket", "driveportfolio-media")
	viper.SetDefault("aws_media_prefix", "media")
	viper.SetDefault("carousel_folder", "public")
	viper.SetDefault("google_drive_credentials_file", "credentials.json")
	viper.SetDefault("dsn", "file:./data/driveportfolio.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("max_sync_workers", 4)
	viper.SetDefault("media_root", "./media")
	viper.SetDefault("media_storage", "local")
	viper.SetDefault("public_root_folder", "Public_Portfolio")
}

func initConfig(path string) error {
	envFiles := []string{".env", ".env.local"}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}

	setDefaults()
	viper.AutomaticEnv()

	if path == "" {
		return nil
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(filepath.Join(filepath.Dir(path), envFile))
	}

	viper.SetConfigFile(path)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

func loadConfig() Config {
	return Config{
		AwsAccessKeyId:       viper.GetString("aws_access_key_id"),
		AwsBucket:            viper.GetString("aws_bucket"),
		AwsEndpointUrl:       viper.GetString("aws_endpoint_url"),
		AwsMediaPrefix:       viper.GetString("aws_media_prefix"),
		AwsRegion:            viper.GetString("aws_region"),
		AwsSecretAccessKey:   viper.GetString("aws_secret_access_key"),
		CarouselFolder:       viper.GetString("carousel_folder"),
		DriveCredentialsFile: viper.GetString("google_drive_credentials_file"),
		DSN:                  viper.GetString("dsn"),
		LogFile:              viper.GetString("log_file"),
		LogLevel:             viper.GetString("log_level"),
		MaxSyncWorkers:       viper.GetInt("max_sync_workers"),
		MediaRoot:            viper.GetString("media_root"),
		MediaStorage:         viper.GetString("media_storage"),
		PublicRootFolder:     viper.GetString("public_root_folder"),
	}
}
