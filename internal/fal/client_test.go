package fal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFAL stands in for the run, queue, storage and CDN endpoints at once
type fakeFAL struct {
	t   *testing.T
	mux *http.ServeMux
	srv *httptest.Server

	statusPolls atomic.Int32
	// pollsUntilDone controls how many IN_PROGRESS statuses precede COMPLETED
	pollsUntilDone int32
	queueFails     bool
	queueError     string
}

func newFakeFAL(t *testing.T) *fakeFAL {
	f := &fakeFAL{t: t, mux: http.NewServeMux()}
	f.srv = httptest.NewServer(f.mux)
	t.Cleanup(f.srv.Close)

	// Synchronous image generation
	f.mux.HandleFunc("POST /"+ModelTextToImage, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]string{{"url": f.srv.URL + "/files/out.png"}},
		})
	})
	f.mux.HandleFunc("POST /"+ModelImageEdit, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]string{{"url": f.srv.URL + "/files/out.png"}},
		})
	})

	// Queue submission for every video model
	queueSubmit := func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"request_id":   "req-1",
			"status_url":   f.srv.URL + "/queue/status",
			"response_url": f.srv.URL + "/queue/result",
		})
	}
	f.mux.HandleFunc("POST /"+ModelTextToVideo, queueSubmit)
	f.mux.HandleFunc("POST /"+ModelImageToVideo, queueSubmit)
	f.mux.HandleFunc("POST /"+ModelMotionTransfer, queueSubmit)
	f.mux.HandleFunc("POST /"+ModelMotionControl, queueSubmit)

	f.mux.HandleFunc("GET /queue/status", func(w http.ResponseWriter, r *http.Request) {
		n := f.statusPolls.Add(1)
		switch {
		case f.queueFails:
			json.NewEncoder(w).Encode(map[string]string{"status": "FAILED", "error": f.queueError})
		case n <= f.pollsUntilDone:
			json.NewEncoder(w).Encode(map[string]string{"status": "IN_PROGRESS"})
		default:
			json.NewEncoder(w).Encode(map[string]string{"status": "COMPLETED"})
		}
	})
	f.mux.HandleFunc("GET /queue/result", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"video": map[string]string{"url": f.srv.URL + "/files/out.mp4"},
		})
	})

	// Storage upload
	f.mux.HandleFunc("POST /storage/initiate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"upload_url": f.srv.URL + "/storage/put",
			"file_url":   f.srv.URL + "/files/uploaded.bin",
		})
	})
	f.mux.HandleFunc("PUT /storage/put", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// CDN downloads
	f.mux.HandleFunc("GET /files/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("artifact-bytes"))
	})

	return f
}

func (f *fakeFAL) client() *Client {
	return NewClient(Config{
		Key:          "test-key",
		RunBaseURL:   f.srv.URL,
		QueueBaseURL: f.srv.URL,
		UploadURL:    f.srv.URL + "/storage/initiate",
		PollInterval: time.Millisecond,
	})
}

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("input"), 0o644))
	return path
}

func TestGenerateFromText(t *testing.T) {
	f := newFakeFAL(t)
	destination := filepath.Join(t.TempDir(), "out.png")

	got, err := f.client().GenerateFromText(context.Background(), "a portrait", destination)
	require.NoError(t, err)
	assert.Equal(t, destination, got)

	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, "artifact-bytes", string(data))
}

func TestGenerateFromReferencesUploadsEachReference(t *testing.T) {
	f := newFakeFAL(t)
	ref1 := writeTempFile(t, "ref1.png")
	ref2 := writeTempFile(t, "ref2.png")
	destination := filepath.Join(t.TempDir(), "out.png")

	_, err := f.client().GenerateFromReferences(context.Background(), "pose", []string{ref1, ref2}, destination)
	require.NoError(t, err)
	assert.FileExists(t, destination)
}

func TestGenerateVideoPollsUntilCompleted(t *testing.T) {
	f := newFakeFAL(t)
	f.pollsUntilDone = 3
	destination := filepath.Join(t.TempDir(), "out.mp4")

	_, err := f.client().GenerateVideo(context.Background(), "0-2s: waves", 10, destination, "")
	require.NoError(t, err)
	assert.FileExists(t, destination)
	assert.GreaterOrEqual(t, f.statusPolls.Load(), int32(4))
}

func TestGenerateVideoRemoteFailurePreservesMessage(t *testing.T) {
	f := newFakeFAL(t)
	f.queueFails = true
	f.queueError = "content policy violation"
	destination := filepath.Join(t.TempDir(), "out.mp4")

	_, err := f.client().GenerateVideo(context.Background(), "0-2s: waves", 10, destination, "")
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "content policy violation", upstream.Message)
	assert.NoFileExists(t, destination)
}

func TestGenerateVideoUploadsLocalImageSource(t *testing.T) {
	f := newFakeFAL(t)
	source := writeTempFile(t, "frame.png")
	destination := filepath.Join(t.TempDir(), "out.mp4")

	_, err := f.client().GenerateVideo(context.Background(), "0-2s: waves", 10, destination, source)
	require.NoError(t, err)
	assert.FileExists(t, destination)
}

func TestGenerateMotionControl(t *testing.T) {
	f := newFakeFAL(t)
	image := writeTempFile(t, "face.png")
	video := writeTempFile(t, "drive.mp4")
	destination := filepath.Join(t.TempDir(), "out.mp4")

	_, err := f.client().GenerateMotionControl(context.Background(), image, video, "dance", destination)
	require.NoError(t, err)
	assert.FileExists(t, destination)
}

func TestUploadFileMissingPath(t *testing.T) {
	f := newFakeFAL(t)

	_, err := f.client().UploadFile(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)

	var upload *UploadError
	assert.ErrorAs(t, err, &upload)
}

func TestDownloadLeavesNoPartialFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{Key: "k"})
	destination := filepath.Join(t.TempDir(), "nested", "out.png")

	err := c.download(context.Background(), srv.URL+"/missing.png", destination)
	require.Error(t, err)

	var download *DownloadError
	require.ErrorAs(t, err, &download)
	assert.Equal(t, http.StatusNotFound, download.StatusCode)
	assert.NoFileExists(t, destination)
	assert.NoDirExists(t, filepath.Dir(destination))
}

func TestRunSyncRemoteErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "prompt rejected"})
	}))
	defer srv.Close()

	c := NewClient(Config{Key: "k", RunBaseURL: srv.URL})
	_, err := c.GenerateFromText(context.Background(), "x", filepath.Join(t.TempDir(), "out.png"))
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "prompt rejected", upstream.Message)
}
