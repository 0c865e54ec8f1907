package fal

import "fmt"

// UpstreamError reports a failed remote generation job. The remote message is
// preserved for user-facing reporting.
type UpstreamError struct {
	Model   string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Model, e.Message)
}

// DownloadError reports a failed fetch of a generated artifact
type DownloadError struct {
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed with status %d", e.URL, e.StatusCode)
}

// UploadError reports a failed upload of a local input file
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s failed: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
