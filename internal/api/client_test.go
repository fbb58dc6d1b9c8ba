package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVideoDetails(t *testing.T) {
	var gotBody detailsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/video-details" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(VideoDetails{
			Title:     "T",
			Thumbnail: "https://img/1.jpg",
			Uploader:  "U",
			Formats:   []string{"best", "720p"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	vd, err := c.VideoDetails(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("VideoDetails: %v", err)
	}
	if gotBody.URL != "https://youtu.be/abc" {
		t.Errorf("request url = %q", gotBody.URL)
	}
	if vd.Title != "T" || vd.Uploader != "U" || len(vd.Formats) != 2 {
		t.Errorf("details = %+v", vd)
	}
}

func TestVideoDetailsNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.VideoDetails(context.Background(), "https://youtu.be/abc"); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestStartProcessing(t *testing.T) {
	tests := []struct {
		name     string
		req      JobRequest
		wantType string
		wantNilQ bool
	}{
		{
			name: "video carries quality",
			req: JobRequest{
				URL:        "https://youtu.be/abc",
				FormatType: "video",
				Quality:    strPtr("720p"),
				Title:      "T",
				Artist:     "U",
			},
			wantType: "video",
		},
		{
			name: "audio sends null quality",
			req: JobRequest{
				URL:        "https://youtu.be/abc",
				FormatType: "audio",
				Title:      "T",
				Artist:     "U",
			},
			wantType: "audio",
			wantNilQ: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/start-processing" {
					t.Errorf("path = %q", r.URL.Path)
				}
				if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
					t.Errorf("decode: %v", err)
				}
				_ = json.NewEncoder(w).Encode(map[string]string{"job_id": "j1"})
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			id, err := c.StartProcessing(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("StartProcessing: %v", err)
			}
			if id != "j1" {
				t.Errorf("job id = %q", id)
			}
			if raw["format_type"] != tt.wantType {
				t.Errorf("format_type = %v", raw["format_type"])
			}
			q, present := raw["quality"]
			if !present {
				t.Fatal("quality key must always be present in the payload")
			}
			if tt.wantNilQ && q != nil {
				t.Errorf("quality = %v, want null", q)
			}
		})
	}
}

func TestStartProcessingMissingJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.StartProcessing(context.Background(), JobRequest{URL: "u", FormatType: "audio"}); err == nil {
		t.Fatal("expected error when job_id is absent")
	}
}

func TestJobStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status/j%2F1" && r.URL.Path != "/status/j/1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(JobStatus{
			Status:      "completed",
			Progress:    100,
			DownloadURL: "d1",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	st, err := c.JobStatus(context.Background(), "j/1")
	if err != nil {
		t.Fatalf("JobStatus: %v", err)
	}
	if st.Status != "completed" || st.Progress != 100 || st.DownloadURL != "d1" {
		t.Errorf("status = %+v", st)
	}
}

func TestArtifactURL(t *testing.T) {
	c := NewClient("http://localhost:8000/")
	if got := c.ArtifactURL("abc 1"); got != "http://localhost:8000/download/abc%201" {
		t.Errorf("ArtifactURL = %q", got)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// The service has no health endpoint; a 404 still proves reachability.
		http.NotFound(w, nil)
	}))
	c := NewClient(srv.URL)
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping against live server: %v", err)
	}

	srv.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Error("Ping against closed server should fail")
	}
}

func TestDownloadArtifact(t *testing.T) {
	const payload = "final artifact bytes"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/download/") {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "clip.mp4")
	var updates int
	c := NewClient(srv.URL)
	err := c.DownloadArtifact(context.Background(), "ref1", dest, func(written, total int64) {
		updates++
		if written <= 0 {
			t.Errorf("progress written = %d", written)
		}
	})
	if err != nil {
		t.Fatalf("DownloadArtifact: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(got) != payload {
		t.Errorf("artifact content = %q", got)
	}
	if updates == 0 {
		t.Error("progress callback never invoked")
	}
}

func strPtr(s string) *string {
	return &s
}
