// Package fal wraps the FAL generation API. Image models run against the
// synchronous endpoint; video models are long-running queue jobs that are
// polled until they complete. All operations block the caller for the full
// duration of the remote job.
package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Model identifiers
const (
	ModelTextToImage   = "fal-ai/nano-banana-pro"
	ModelImageEdit     = "fal-ai/nano-banana-pro/edit"
	ModelTextToVideo   = "xai/grok-imagine-video/text-to-video"
	ModelImageToVideo  = "xai/grok-imagine-video/image-to-video"
	ModelMotionTransfer = "fal-ai/bytedance/dreamactor/v2"
	ModelMotionControl = "fal-ai/kling-video/v2.6/standard/motion-control"
)

// MaxVideoDuration is the upstream cap on requested video length in seconds
const MaxVideoDuration = 15

// Config configures the FAL client
type Config struct {
	Key          string
	RunBaseURL   string
	QueueBaseURL string
	UploadURL    string
	PollInterval time.Duration
}

// Client calls the FAL generation API
type Client struct {
	key          string
	runBaseURL   string
	queueBaseURL string
	uploadURL    string
	pollInterval time.Duration
	httpClient   *http.Client
}

// NewClient creates a FAL client. The HTTP client carries no timeout: video
// jobs run for tens of seconds and the system has no cancellation layer beyond
// the transport default.
func NewClient(cfg Config) *Client {
	if cfg.RunBaseURL == "" {
		cfg.RunBaseURL = "https://fal.run"
	}
	if cfg.QueueBaseURL == "" {
		cfg.QueueBaseURL = "https://queue.fal.run"
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = "https://rest.alpha.fal.ai/storage/upload/initiate"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	return &Client{
		key:          cfg.Key,
		runBaseURL:   cfg.RunBaseURL,
		queueBaseURL: cfg.QueueBaseURL,
		uploadURL:    cfg.UploadURL,
		pollInterval: cfg.PollInterval,
		httpClient:   &http.Client{},
	}
}

type imageResult struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

type videoResult struct {
	Video struct {
		URL string `json:"url"`
	} `json:"video"`
}

// GenerateFromText generates an image from a text prompt and writes it to
// destination, returning the local path.
func (c *Client) GenerateFromText(ctx context.Context, prompt, destination string) (string, error) {
	raw, err := c.runSync(ctx, ModelTextToImage, map[string]any{
		"prompt":     prompt,
		"image_size": "square_hd",
		"num_images": 1,
	})
	if err != nil {
		return "", err
	}

	url, err := firstImageURL(ModelTextToImage, raw)
	if err != nil {
		return "", err
	}
	if err := c.download(ctx, url, destination); err != nil {
		return "", err
	}
	return destination, nil
}

// GenerateFromReferences generates an image conditioned on one or two local
// reference images. Each reference is uploaded to obtain a public URL first.
func (c *Client) GenerateFromReferences(ctx context.Context, prompt string, referencePaths []string, destination string) (string, error) {
	imageURLs := make([]string, 0, len(referencePaths))
	for _, p := range referencePaths {
		url, err := c.UploadFile(ctx, p)
		if err != nil {
			return "", err
		}
		imageURLs = append(imageURLs, url)
	}

	raw, err := c.runSync(ctx, ModelImageEdit, map[string]any{
		"prompt":       prompt,
		"image_urls":   imageURLs,
		"num_images":   1,
		"aspect_ratio": "9:16",
		"resolution":   "2K",
	})
	if err != nil {
		return "", err
	}

	url, err := firstImageURL(ModelImageEdit, raw)
	if err != nil {
		return "", err
	}
	if err := c.download(ctx, url, destination); err != nil {
		return "", err
	}
	return destination, nil
}

// GenerateVideo synthesizes a video from a prompt. If imageSource is non-empty
// it seeds an image-to-video job; a local path source is uploaded first, a
// remote URL is passed through. Duration is clamped to MaxVideoDuration.
func (c *Client) GenerateVideo(ctx context.Context, prompt string, durationSeconds int, destination, imageSource string) (string, error) {
	if durationSeconds > MaxVideoDuration {
		durationSeconds = MaxVideoDuration
	}

	args := map[string]any{
		"prompt":       prompt,
		"duration":     durationSeconds,
		"aspect_ratio": "9:16",
		"resolution":   "720p",
	}

	model := ModelTextToVideo
	if imageSource != "" {
		imageURL := imageSource
		if !isRemoteURL(imageSource) {
			uploaded, err := c.UploadFile(ctx, imageSource)
			if err != nil {
				return "", err
			}
			imageURL = uploaded
		}
		args["image_url"] = imageURL
		model = ModelImageToVideo
	}

	raw, err := c.subscribe(ctx, model, args)
	if err != nil {
		return "", err
	}

	url, err := resultVideoURL(model, raw)
	if err != nil {
		return "", err
	}
	if err := c.download(ctx, url, destination); err != nil {
		return "", err
	}
	return destination, nil
}

// GenerateMotionTransfer applies the motion of a driving video onto a face
// image. Both inputs are local paths and are uploaded first.
func (c *Client) GenerateMotionTransfer(ctx context.Context, faceImagePath, drivingVideoPath, destination string) (string, error) {
	faceURL, err := c.UploadFile(ctx, faceImagePath)
	if err != nil {
		return "", err
	}
	drivingURL, err := c.UploadFile(ctx, drivingVideoPath)
	if err != nil {
		return "", err
	}

	raw, err := c.subscribe(ctx, ModelMotionTransfer, map[string]any{
		"face_image_url":    faceURL,
		"driving_video_url": drivingURL,
	})
	if err != nil {
		return "", err
	}

	url, err := resultVideoURL(ModelMotionTransfer, raw)
	if err != nil {
		return "", err
	}
	if err := c.download(ctx, url, destination); err != nil {
		return "", err
	}
	return destination, nil
}

// GenerateMotionControl drives a character image with a reference video and a
// prompt.
func (c *Client) GenerateMotionControl(ctx context.Context, imagePath, videoPath, prompt, destination string) (string, error) {
	imageURL, err := c.UploadFile(ctx, imagePath)
	if err != nil {
		return "", err
	}
	videoURL, err := c.UploadFile(ctx, videoPath)
	if err != nil {
		return "", err
	}

	raw, err := c.subscribe(ctx, ModelMotionControl, map[string]any{
		"image_url":             imageURL,
		"video_url":             videoURL,
		"prompt":                prompt,
		"character_orientation": "video",
	})
	if err != nil {
		return "", err
	}

	url, err := resultVideoURL(ModelMotionControl, raw)
	if err != nil {
		return "", err
	}
	if err := c.download(ctx, url, destination); err != nil {
		return "", err
	}
	return destination, nil
}

func firstImageURL(model string, raw json.RawMessage) (string, error) {
	var result imageResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", &UpstreamError{Model: model, Message: fmt.Sprintf("unexpected response shape: %v", err)}
	}
	if len(result.Images) == 0 || result.Images[0].URL == "" {
		return "", &UpstreamError{Model: model, Message: "no image returned"}
	}
	return result.Images[0].URL, nil
}

func resultVideoURL(model string, raw json.RawMessage) (string, error) {
	var result videoResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", &UpstreamError{Model: model, Message: fmt.Sprintf("unexpected response shape: %v", err)}
	}
	if result.Video.URL == "" {
		return "", &UpstreamError{Model: model, Message: "no video returned"}
	}
	return result.Video.URL, nil
}

// runSync posts to the synchronous run endpoint and returns the raw result
func (c *Client) runSync(ctx context.Context, model string, args map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.runBaseURL+"/"+model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Model: model, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Model: model, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Model: model, Message: remoteMessage(resp.StatusCode, respBody)}
	}

	return respBody, nil
}

type queueSubmitResponse struct {
	RequestID   string `json:"request_id"`
	StatusURL   string `json:"status_url"`
	ResponseURL string `json:"response_url"`
}

type queueStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// subscribe submits a queue job and blocks until the remote job completes,
// returning the raw result. Failure of the remote job surfaces as an
// UpstreamError carrying the remote message.
func (c *Client) subscribe(ctx context.Context, model string, args map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queueBaseURL+"/"+model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Model: model, Message: err.Error()}
	}
	submitBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &UpstreamError{Model: model, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, &UpstreamError{Model: model, Message: remoteMessage(resp.StatusCode, submitBody)}
	}

	var submitted queueSubmitResponse
	if err := json.Unmarshal(submitBody, &submitted); err != nil {
		return nil, &UpstreamError{Model: model, Message: fmt.Sprintf("unexpected queue response: %v", err)}
	}
	if submitted.StatusURL == "" || submitted.ResponseURL == "" {
		return nil, &UpstreamError{Model: model, Message: "queue submission returned no request URLs"}
	}

	for {
		status, err := c.fetchStatus(ctx, model, submitted.StatusURL)
		if err != nil {
			return nil, err
		}
		switch status.Status {
		case "COMPLETED":
			return c.fetchResult(ctx, model, submitted.ResponseURL)
		case "FAILED", "ERROR":
			msg := status.Error
			if msg == "" {
				msg = "remote job failed"
			}
			return nil, &UpstreamError{Model: model, Message: msg}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) fetchStatus(ctx context.Context, model, statusURL string) (*queueStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Model: model, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Model: model, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Model: model, Message: remoteMessage(resp.StatusCode, body)}
	}

	var status queueStatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, &UpstreamError{Model: model, Message: fmt.Sprintf("unexpected status response: %v", err)}
	}
	return &status, nil
}

func (c *Client) fetchResult(ctx context.Context, model, responseURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, responseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Model: model, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Model: model, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Model: model, Message: remoteMessage(resp.StatusCode, body)}
	}

	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Key "+c.key)
	if req.Method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
}

func remoteMessage(statusCode int, body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("request failed with status %d: %s", statusCode, string(body))
}

func isRemoteURL(s string) bool {
	return len(s) > 7 && (s[:7] == "http://" || (len(s) > 8 && s[:8] == "https://"))
}
