// Package mediastore is the object store adapter: generated and uploaded media
// live on local disk under the data root and are addressed publicly by
// web-relative paths (/media/images/..., /media/videos/...).
package mediastore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ai-influencer-studio/backend/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Web path prefixes under which media files are served
const (
	WebPrefix      = "/media/"
	WebImagePrefix = "/media/images/"
	WebVideoPrefix = "/media/videos/"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// LocalPath maps a web-relative media path onto the local filesystem below
// dataDir. Any other path is assumed to already be local and is returned
// unchanged, which also makes the mapping idempotent.
func LocalPath(dataDir, path string) string {
	if strings.HasPrefix(path, WebPrefix) {
		return filepath.Join(dataDir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	}
	return path
}

// Store resolves web paths to disk locations and owns file lifecycle for the
// media directories.
type Store struct {
	dataDir   string
	imagesDir string
	videosDir string
	log       *logger.Logger
}

// New creates a store rooted at dataDir. The media subdirectories are created
// if missing.
func New(dataDir string, log *logger.Logger) (*Store, error) {
	s := &Store{
		dataDir:   dataDir,
		imagesDir: filepath.Join(dataDir, "media", "images"),
		videosDir: filepath.Join(dataDir, "media", "videos"),
		log:       log,
	}
	for _, dir := range []string{s.imagesDir, s.videosDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create media directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// LocalPath maps a web path to a local path under this store's data root
func (s *Store) LocalPath(path string) string {
	return LocalPath(s.dataDir, path)
}

// NewImageFilename mints a unique image filename with the given prefix and
// extension (without dot)
func (s *Store) NewImageFilename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, gonanoid.MustGenerate(idAlphabet, 12), ext)
}

// NewVideoFilename mints a unique video filename with the given prefix
func (s *Store) NewVideoFilename(prefix string) string {
	return fmt.Sprintf("%s_%s.mp4", prefix, gonanoid.MustGenerate(idAlphabet, 12))
}

// NewUploadFilename mints a short unique filename for user uploads
func (s *Store) NewUploadFilename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, gonanoid.MustGenerate(idAlphabet, 8), ext)
}

// ImageWebPath returns the public path for an image filename
func (s *Store) ImageWebPath(filename string) string {
	return WebImagePrefix + filename
}

// VideoWebPath returns the public path for a video filename
func (s *Store) VideoWebPath(filename string) string {
	return WebVideoPrefix + filename
}

// ImageLocalPath returns the on-disk destination for an image filename
func (s *Store) ImageLocalPath(filename string) string {
	return filepath.Join(s.imagesDir, filename)
}

// VideoLocalPath returns the on-disk destination for a video filename
func (s *Store) VideoLocalPath(filename string) string {
	return filepath.Join(s.videosDir, filename)
}

// ImagesDir returns the images directory for static serving
func (s *Store) ImagesDir() string {
	return s.imagesDir
}

// VideosDir returns the videos directory for static serving
func (s *Store) VideosDir() string {
	return s.videosDir
}

// BestEffortRemove deletes the files behind the given web paths from disk.
// Failures are logged and swallowed: database consistency outranks disk
// cleanliness, and an undeletable file is left for manual cleanup.
func (s *Store) BestEffortRemove(webPaths []string) {
	for _, webPath := range webPaths {
		if webPath == "" || !strings.HasPrefix(webPath, WebPrefix) {
			continue
		}
		local := s.LocalPath(webPath)
		if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
			s.log.Warn("Failed to remove media file", "path", local, "error", err.Error())
		}
	}
}
