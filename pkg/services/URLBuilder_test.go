package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adampresley/driveportfolio/pkg/drive"
	"github.com/stretchr/testify/assert"
)

func TestPublicURLEscapesEachSegment(t *testing.T) {
	builder := NewURLBuilder(URLBuilderConfig{
		PublicBaseURL: "https://storage.googleapis.com/bucket/",
		PublicPrefix:  "/Public Portfolio/",
	})

	u, ok := builder.PublicURL("Fall Colors", "leaf #1.jpg")

	assert.True(t, ok)
	assert.Equal(t, "https://storage.googleapis.com/bucket/Public%20Portfolio/Fall%20Colors/leaf%20%231.jpg", u)
}

func TestPublicURLDisabledWithoutBase(t *testing.T) {
	builder := NewURLBuilder(URLBuilderConfig{})

	_, ok := builder.PublicURL("public", "a.jpg")

	assert.False(t, ok)
}

func TestPrivateSignedURLDisabledWithoutSigner(t *testing.T) {
	builder := NewURLBuilder(URLBuilderConfig{PrivateBucket: "private"})

	_, ok := builder.PrivateSignedURL("Smith_Wedding", "a.jpg")

	assert.False(t, ok)
}

func TestDriveURLPrefersDirectDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "abc", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	builder := NewURLBuilder(URLBuilderConfig{DriveDownloadBase: server.URL + "/uc"})

	u := builder.DriveURL(context.Background(), drive.File{ID: "abc", WebContentLink: "https://drive.example/web"})

	assert.Equal(t, server.URL+"/uc?id=abc&export=download", u)
}

func TestDriveURLFallsBackToWebContentLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	builder := NewURLBuilder(URLBuilderConfig{DriveDownloadBase: server.URL + "/uc"})

	u := builder.DriveURL(context.Background(), drive.File{ID: "abc", WebContentLink: "https://drive.example/web"})

	assert.Equal(t, "https://drive.example/web", u)
}

func TestDriveURLUpgradesThumbnailLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	builder := NewURLBuilder(URLBuilderConfig{DriveDownloadBase: server.URL + "/uc"})

	u := builder.DriveURL(context.Background(), drive.File{ID: "abc", ThumbnailLink: "https://lh3.example/thumb=s220"})

	assert.Equal(t, "https://lh3.example/thumb=s1200", u)
}
