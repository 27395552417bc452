package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/adampresley/driveportfolio/pkg/drive"
	"golang.org/x/oauth2/google"
)

const (
	DefaultDriveDownloadBase = "https://drive.google.com/uc"
)

type URLBuilderConfig struct {
	// PublicBaseURL is the public object storage base, such as
	// https://storage.googleapis.com/my-bucket. Empty disables public URLs.
	PublicBaseURL string
	PublicPrefix  string

	// PrivateBucket and ServiceAccountJSON enable signed URLs for private
	// albums. ServiceAccountJSON holds either the key JSON itself or a path
	// to the key file.
	PrivateBucket      string
	PrivatePrefix      string
	ServiceAccountJSON string
	SignedURLLifetime  time.Duration

	DriveDownloadBase string
	HTTPClient        *http.Client
}

/*
URLBuilder picks the URL a browser should use to fetch a Drive image in
production mode.
*/
type URLBuilder struct {
	publicBaseURL     string
	publicPrefix      string
	privateBucket     string
	privatePrefix     string
	signerEmail       string
	signerKey         []byte
	signedURLLifetime time.Duration
	driveDownloadBase string
	httpClient        *http.Client
}

func NewURLBuilder(config URLBuilderConfig) URLBuilder {
	result := URLBuilder{
		publicBaseURL:     strings.TrimRight(config.PublicBaseURL, "/"),
		publicPrefix:      strings.Trim(config.PublicPrefix, "/"),
		privateBucket:     config.PrivateBucket,
		privatePrefix:     strings.Trim(config.PrivatePrefix, "/"),
		signedURLLifetime: config.SignedURLLifetime,
		driveDownloadBase: config.DriveDownloadBase,
		httpClient:        config.HTTPClient,
	}

	if result.signedURLLifetime <= 0 {
		result.signedURLLifetime = 6 * time.Hour
	}

	if result.driveDownloadBase == "" {
		result.driveDownloadBase = DefaultDriveDownloadBase
	}

	if result.httpClient == nil {
		result.httpClient = &http.Client{}
	}

	if config.PrivateBucket != "" && config.ServiceAccountJSON != "" {
		email, key, err := loadSigner(config.ServiceAccountJSON)

		if err != nil {
			slog.Error("failed to load service account for signed URLs. signed URLs disabled", "error", err)
		} else {
			result.signerEmail = email
			result.signerKey = key
		}
	}

	return result
}

/*
PublicURL returns {base}/{prefix}/{folder}/{file} with every path segment
percent-encoded. The second return is false when no public base URL is
configured.
*/
func (b URLBuilder) PublicURL(folderName, fileName string) (string, bool) {
	if b.publicBaseURL == "" {
		return "", false
	}

	path := strings.Join([]string{
		escapeSegments(b.publicPrefix),
		escapeSegments(folderName),
		escapeSegments(fileName),
	}, "/")

	return b.publicBaseURL + "/" + path, true
}

/*
PrivateSignedURL returns a V4 signed GET URL for
{privatePrefix}/{folder}/{file} in the private bucket.
*/
func (b URLBuilder) PrivateSignedURL(folderName, fileName string) (string, bool) {
	if b.privateBucket == "" || len(b.signerKey) == 0 {
		return "", false
	}

	objectPath := fmt.Sprintf("%s/%s/%s", b.privatePrefix, folderName, fileName)

	u, err := storage.SignedURL(b.privateBucket, objectPath, &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         http.MethodGet,
		Expires:        time.Now().Add(b.signedURLLifetime),
		GoogleAccessID: b.signerEmail,
		PrivateKey:     b.signerKey,
	})

	if err != nil {
		slog.Error("failed to sign object storage URL", "object", objectPath, "error", err)
		return "", false
	}

	return u, true
}

/*
DriveURL returns a high resolution Google Drive URL for a file. The direct
download URL is used when a quick HEAD request succeeds, then the file's
web content link, then its thumbnail link upgraded from 220 to 1200 pixels.
*/
func (b URLBuilder) DriveURL(ctx context.Context, file drive.File) string {
	original := b.directDownloadURL(file.ID)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodHead, original, nil)

	if err == nil {
		if response, err := b.httpClient.Do(request); err == nil {
			response.Body.Close()

			if response.StatusCode == http.StatusOK {
				return original
			}
		} else {
			slog.Debug("drive download URL check failed", "fileID", file.ID, "error", err)
		}
	}

	if file.WebContentLink != "" {
		return file.WebContentLink
	}

	if file.ThumbnailLink != "" {
		return strings.Replace(file.ThumbnailLink, "=s220", "=s1200", 1)
	}

	return original
}

func (b URLBuilder) directDownloadURL(fileID string) string {
	return fmt.Sprintf("%s?id=%s&export=download", b.driveDownloadBase, url.QueryEscape(fileID))
}

func escapeSegments(value string) string {
	parts := strings.Split(value, "/")

	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}

	return strings.Join(parts, "/")
}

func loadSigner(serviceAccount string) (string, []byte, error) {
	var (
		err error
		b   []byte
	)

	if strings.HasPrefix(strings.TrimSpace(serviceAccount), "{") {
		b = []byte(serviceAccount)
	} else if b, err = os.ReadFile(serviceAccount); err != nil {
		return "", nil, fmt.Errorf("error reading service account file '%s': %w", serviceAccount, err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(b)

	if err != nil {
		return "", nil, fmt.Errorf("error parsing service account: %w", err)
	}

	return jwtConfig.Email, jwtConfig.PrivateKey, nil
}
