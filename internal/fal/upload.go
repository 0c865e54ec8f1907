package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

type initiateUploadResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
}

// UploadFile uploads a local file to FAL storage and returns its public URL
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &UploadError{Path: path, Err: err}
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	initBody, err := json.Marshal(map[string]string{
		"file_name":    filepath.Base(path),
		"content_type": contentType,
	})
	if err != nil {
		return "", &UploadError{Path: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, bytes.NewReader(initBody))
	if err != nil {
		return "", &UploadError{Path: path, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UploadError{Path: path, Err: err}
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", &UploadError{Path: path, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &UploadError{Path: path, Err: fmt.Errorf("initiate failed with status %d: %s", resp.StatusCode, string(respBody))}
	}

	var initiated initiateUploadResponse
	if err := json.Unmarshal(respBody, &initiated); err != nil {
		return "", &UploadError{Path: path, Err: err}
	}
	if initiated.UploadURL == "" || initiated.FileURL == "" {
		return "", &UploadError{Path: path, Err: fmt.Errorf("initiate returned no upload URL")}
	}

	putReq, err := http.NewRequestWithContext(ctx, http.MethodPut, initiated.UploadURL, bytes.NewReader(data))
	if err != nil {
		return "", &UploadError{Path: path, Err: err}
	}
	putReq.Header.Set("Content-Type", contentType)

	putResp, err := c.httpClient.Do(putReq)
	if err != nil {
		return "", &UploadError{Path: path, Err: err}
	}
	io.Copy(io.Discard, putResp.Body)
	putResp.Body.Close()
	if putResp.StatusCode < 200 || putResp.StatusCode >= 300 {
		return "", &UploadError{Path: path, Err: fmt.Errorf("upload failed with status %d", putResp.StatusCode)}
	}

	return initiated.FileURL, nil
}
