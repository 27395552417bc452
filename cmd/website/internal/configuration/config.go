package configuration

import (
	"strconv"

	"github.com/adampresley/configinator"
)

type Config struct {
	AdminPasswordHash     string `flag:"adminpasswordhash" env:"ADMIN_PASSWORD_HASH" default:"" description:"bcrypt hash of the staff password"`
	AdminUsername         string `flag:"adminusername" env:"ADMIN_USERNAME" default:"admin" description:"Staff user name"`
	AwsEndpointUrl        string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion             string `flag:"awsregion" env:"AWS_REGION" default:"us-central-1" description:"AWS region"`
	AwsAccessKeyId        string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey    string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket             string `flag:"awsbucket" env:"AWS_BUCKET" default:"driveportfolio-media" description:"S3 bucket for mirrored images"`
	AwsMediaPrefix        string `flag:"awsmediaprefix" env:"AWS_MEDIA_PREFIX" default:"media" description:"Key prefix for mirrored images in the S3 bucket"`
	CarouselFolder        string `flag:"carouselfolder" env:"CAROUSEL_FOLDER" default:"public" description:"Drive folder under the public root shown in the home page carousel"`
	ContactEmail          string `flag:"contactemail" env:"CONTACT_EMAIL" default:"" description:"Email address shown on the contact page"`
	CookieSecret          string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding cookies"`
	DriveCredentialsFile  string `flag:"drivecredentials" env:"GOOGLE_DRIVE_CREDENTIALS_FILE" default:"credentials.json" description:"Google service account credentials file"`
	DSN                   string `flag:"dsn" env:"DSN" default:"file:./data/driveportfolio.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)" description:"Data source name"`
	EmailApiKey           string `flag:"emailapikey" env:"EMAIL_API_KEY" default:"" description:"API key for sending emails"`
	FromEmail             string `flag:"fromemail" env:"FROM_EMAIL" default:"noreply@example.com" description:"Sender address for album link emails"`
	FromName              string `flag:"fromname" env:"FROM_NAME" default:"Portfolio" description:"Sender name for album link emails"`
	GcpServiceAccountJSON string `flag:"gcpserviceaccount" env:"GCP_SERVICE_ACCOUNT_JSON" default:"" description:"Service account JSON, inline or a file path, used to sign private URLs"`
	GcsPrivateBucket      string `flag:"gcsprivatebucket" env:"GCS_PRIVATE_BUCKET" default:"" description:"GCS bucket holding private album copies"`
	GcsPrivatePrefix      string `flag:"gcsprivateprefix" env:"GCS_PRIVATE_PREFIX" default:"Private_Albums" description:"Object prefix for private album copies"`
	GcsPublicBaseURL      string `flag:"gcspublicbaseurl" env:"GCS_PUBLIC_BASE_URL" default:"" description:"Public base URL of the portfolio bucket"`
	GcsPublicPrefix       string `flag:"gcspublicprefix" env:"GCS_PUBLIC_PREFIX" default:"Public_Portfolio" description:"Object prefix for public portfolio copies"`
	GcsSignedURLHours     int    `flag:"gcssignedurlhours" env:"GCS_SIGNED_URL_HOURS" default:"6" description:"Lifetime of signed private URLs, in hours"`
	Host                  string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	LogFile               string `flag:"logfile" env:"LOG_FILE" default:"" description:"Optional file to also write logs to, rotated automatically"`
	LogLevel              string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxSyncWorkers        int    `flag:"maxsyncworkers" env:"MAX_SYNC_WORKERS" default:"4" description:"Maximum number of concurrent downloads during a sync"`
	MediaRoot             string `flag:"mediaroot" env:"MEDIA_ROOT" default:"./media" description:"Directory for mirrored images when MEDIA_STORAGE is local"`
	MediaStorage          string `flag:"mediastorage" env:"MEDIA_STORAGE" default:"local" description:"Where mirrored images are kept. Valid values are 'local' and 's3'"`
	PageCacheMinutes      int    `flag:"pagecacheminutes" env:"PAGE_CACHE_MINUTES" default:"15" description:"Minutes production keeps carousel, gallery and album listings. 0 disables it"`
	PrivateRootFolder     string `flag:"privateroot" env:"PRIVATE_ROOT_FOLDER" default:"Private_Albums" description:"Drive folder holding private client albums"`
	ProductionMode        string `flag:"production" env:"PRODUCTION_MODE" default:"auto" description:"Force production mode on or off. 'auto' detects it from the environment"`
	PublicRootFolder      string `flag:"publicroot" env:"PUBLIC_ROOT_FOLDER" default:"Public_Portfolio" description:"Drive folder holding the public portfolio"`
	SiteBaseURL           string `flag:"sitebaseurl" env:"SITE_BASE_URL" default:"http://localhost:8081" description:"Absolute base URL used when building share links"`
	SyncIntervalMinutes   int    `flag:"syncinterval" env:"SYNC_INTERVAL_MINUTES" default:"60" description:"Minutes between background Drive syncs. 0 disables them"`
	SyncOnStart           string `flag:"synconstart" env:"SYNC_GOOGLE_DRIVE" default:"false" description:"Run a Drive sync when the server starts when set to true"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}

/*
SyncOnStartEnabled reports whether SYNC_GOOGLE_DRIVE asks for a sync at
start up. Anything that does not parse as a boolean is false.
*/
func (c Config) SyncOnStartEnabled() bool {
	result, _ := strconv.ParseBool(c.SyncOnStart)
	return result
}
