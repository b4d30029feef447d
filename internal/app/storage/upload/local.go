package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalScheme prefixes upload targets handed out in local development.
const LocalScheme = "local-dev"

// ErrOutsideUploadDir is returned for local paths that do not resolve under
// the upload directory.
var ErrOutsideUploadDir = errors.New("path is outside the upload directory")

// LocalStorage is the development backend. Clients are told to upload to
// local-dev://upload/job_videos/{id}.{ext}; the bytes are expected to land
// under dir. Local references outside dir are refused. References to remote
// objects are trusted as given.
type LocalStorage struct {
	dir    string
	client *http.Client
	logger *zap.Logger
}

// NewLocalStorage creates the upload directory if needed.
func NewLocalStorage(dir string, logger *zap.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(dir, "job_videos"), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalStorage{dir: dir, client: http.DefaultClient, logger: logger}, nil
}

// AllocateUploadTarget returns the local-dev URI for the job video.
func (s *LocalStorage) AllocateUploadTarget(ctx context.Context, jobVideoID int64, ext string) (*Target, error) {
	key := ObjectKey(jobVideoID, ext)
	return &Target{
		URL:    fmt.Sprintf("%s://upload/%s", LocalScheme, key),
		Method: "PUT",
		Key:    key,
	}, nil
}

// Confirm checks local files on disk and accepts remote references.
func (s *LocalStorage) Confirm(ctx context.Context, jobVideoID int64, fileURL string) (bool, error) {
	local, ok, err := s.localPath(fileURL)
	if err != nil {
		s.logger.Warn("upload confirmation outside upload dir", zap.Int64("job_video_id", jobVideoID), zap.String("file_url", fileURL))
		return false, nil
	}
	if !ok {
		return strings.TrimSpace(fileURL) != "", nil
	}
	info, err := os.Stat(local)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", local, err)
	}
	return !info.IsDir(), nil
}

// Fetch returns local files in place and downloads http(s) URLs to a temp file.
func (s *LocalStorage) Fetch(ctx context.Context, fileURL string) (string, func(), error) {
	local, ok, err := s.localPath(fileURL)
	if err != nil {
		return "", nil, fmt.Errorf("fetch %q: %w", fileURL, err)
	}
	if ok {
		if _, err := os.Stat(local); err != nil {
			return "", nil, fmt.Errorf("open %s: %w", local, err)
		}
		return local, func() {}, nil
	}

	u, err := url.Parse(fileURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", nil, fmt.Errorf("cannot fetch %q with local storage", fileURL)
	}
	return s.download(ctx, u)
}

func (s *LocalStorage) download(ctx context.Context, u *url.URL) (string, func(), error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("download %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("download %s: status %d", u, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "plumberf-*"+path.Ext(u.Path))
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("download %s: %w", u, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return tmp.Name(), cleanup, nil
}

// localPath maps local-dev://upload/<key>, file:// URLs and plain paths to a
// file under the upload directory. Relative plain paths are relative to it.
func (s *LocalStorage) localPath(fileURL string) (string, bool, error) {
	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		return "", false, nil
	}

	var p string
	u, err := url.Parse(fileURL)
	switch {
	case err != nil || u.Scheme == "":
		p = filepath.FromSlash(fileURL)
	case u.Scheme == LocalScheme:
		p = filepath.FromSlash(strings.TrimPrefix(u.Path, "/"))
	case u.Scheme == "file":
		p = filepath.FromSlash(u.Path)
	default:
		return "", false, nil
	}

	root, err := filepath.Abs(s.dir)
	if err != nil {
		return "", true, err
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	p = filepath.Clean(p)
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", true, ErrOutsideUploadDir
	}
	return p, true, nil
}
