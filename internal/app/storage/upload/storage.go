// Package upload allocates upload destinations for job videos, confirms that
// uploaded bytes exist, and fetches them for processing.
package upload

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

// Target is where a client should place the bytes of one job video.
type Target struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
}

// Allocator hands out upload destinations and confirms uploads landed.
type Allocator interface {
	AllocateUploadTarget(ctx context.Context, jobVideoID int64, ext string) (*Target, error)
	// Confirm reports whether an object exists at fileURL.
	Confirm(ctx context.Context, jobVideoID int64, fileURL string) (bool, error)
}

// Fetcher makes an uploaded object available as a local file. The returned
// cleanup func removes any temporary copy.
type Fetcher interface {
	Fetch(ctx context.Context, fileURL string) (localPath string, cleanup func(), err error)
}

// Storage is the full upload collaborator.
type Storage interface {
	Allocator
	Fetcher
}

var extPattern = regexp.MustCompile(`^[a-z0-9]{1,10}$`)

// NormalizeExtension lowercases ext and strips a leading dot. It returns
// false for anything that is not a short alphanumeric extension.
func NormalizeExtension(ext string) (string, bool) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	return ext, extPattern.MatchString(ext)
}

// ObjectKey is the storage key of a job video's source file.
func ObjectKey(jobVideoID int64, ext string) string {
	return fmt.Sprintf("job_videos/%d.%s", jobVideoID, ext)
}

// OwnsKey reports whether key is the object key allocated to jobVideoID,
// with any valid extension.
func OwnsKey(jobVideoID int64, key string) bool {
	prefix := fmt.Sprintf("job_videos/%d.", jobVideoID)
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	ext := strings.TrimPrefix(key, prefix)
	normalized, ok := NormalizeExtension(ext)
	return ok && normalized == ext
}

// BaseName returns the file name part of a file URL or path.
func BaseName(fileURL string) string {
	if u, err := url.Parse(fileURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(fileURL)
}
