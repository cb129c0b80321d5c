package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second, staticToken("tok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func memFile(name, content string) remote.File {
	return remote.File{
		Name:        name,
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestUploadFile(t *testing.T) {
	content := strings.Repeat("resume-bytes ", 4096)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload_resume/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		f, fh, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "no file"})
			return
		}
		defer f.Close()
		got, _ := io.ReadAll(f)
		assert.Equal(t, "cv.pdf", fh.Filename)
		assert.Equal(t, "application/pdf", fh.Header.Get("Content-Type"))
		assert.Equal(t, content, string(got))
		writeJSON(w, http.StatusOK, map[string]string{"filename": "cv.pdf", "message": "uploaded"})
	})
	c := newTestClient(t, mux)

	var mu sync.Mutex
	var seen []int
	id, err := c.UploadFile(context.Background(), memFile("cv.pdf", content), func(p int) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", id)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
	assert.Equal(t, 100, seen[len(seen)-1])
}

func TestUploadFile_Failures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload_resume/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "disk full"})
	})
	c := newTestClient(t, mux)

	_, err := c.UploadFile(context.Background(), memFile("cv.pdf", "x"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrUpload)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.StatusCode)
	assert.Equal(t, "disk full", he.Detail)

	_, err = c.UploadFile(context.Background(), remote.File{Name: "cv.pdf"}, nil)
	assert.ErrorIs(t, err, remote.ErrUpload)

	broken := remote.File{Name: "cv.pdf", Open: func() (io.ReadCloser, error) { return nil, errors.New("gone") }}
	_, err = c.UploadFile(context.Background(), broken, nil)
	assert.ErrorIs(t, err, remote.ErrUpload)
}

func TestUploadFile_EmptyFilename(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload_resume/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusOK, map[string]string{"filename": " "})
	})
	c := newTestClient(t, mux)

	_, err := c.UploadFile(context.Background(), memFile("cv.pdf", "x"), nil)
	assert.ErrorIs(t, err, remote.ErrUpload)
	assert.ErrorIs(t, err, errEmptyFilename)
}

func TestFetchParsedResume(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /parse_resume/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("filename") {
		case "cv.pdf":
			writeJSON(w, http.StatusOK, map[string]any{
				"name":       " Jane Doe ",
				"email":      "jane@example.com",
				"skills":     []string{"SQL", "Python"},
				"experience": []map[string]string{{"role": "Analyst", "company": "Acme"}},
			})
		case "broken.pdf":
			writeJSON(w, http.StatusOK, map[string]string{"error": "corrupt document"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "File not found"})
		}
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	p, err := c.FetchParsedResume(ctx, "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, []string{"SQL", "Python"}, p.Skills)
	assert.Equal(t, []string{}, p.Education)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Acme", p.Experience[0].Company)

	_, err = c.FetchParsedResume(ctx, "broken.pdf")
	assert.ErrorIs(t, err, remote.ErrParse)
	assert.Equal(t, "corrupt document", remote.Cause(err))

	_, err = c.FetchParsedResume(ctx, "missing.pdf")
	assert.ErrorIs(t, err, remote.ErrParse)
	assert.Equal(t, "http 404: File not found", remote.Cause(err))
}

func TestFetchCareerSuggestions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /suggest_careers/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filename") == "legacy.pdf" {
			writeJSON(w, http.StatusOK, map[string]any{
				"suggested": []map[string]any{{"title": "Web Developer", "score": 3}},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"suggested_careers": []map[string]any{
				{"title": "Data Analyst", "confidence": 0.92, "skills": []string{"SQL"}},
				{"title": "  ", "confidence": 0.5},
				{"title": "ML Engineer", "confidence": 0.81},
			},
			"parsed_skills": []string{"SQL", "Python"},
			"method_used":   "ml_model",
		})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	s, err := c.FetchCareerSuggestions(ctx, "cv.pdf")
	require.NoError(t, err)
	require.Len(t, s.Careers, 2)
	assert.Equal(t, "Data Analyst", s.Careers[0].Title)
	require.NotNil(t, s.Careers[0].Confidence)
	assert.InDelta(t, 0.92, *s.Careers[0].Confidence, 1e-9)
	assert.Equal(t, "ML Engineer", s.Careers[1].Title)
	assert.Equal(t, []string{}, s.Careers[1].Skills)
	assert.Equal(t, "ml_model", s.Method)
	assert.Equal(t, []string{"SQL", "Python"}, s.ParsedSkills)

	s, err = c.FetchCareerSuggestions(ctx, "legacy.pdf")
	require.NoError(t, err)
	require.Len(t, s.Careers, 1)
	require.NotNil(t, s.Careers[0].Score)
	assert.InDelta(t, 3.0, *s.Careers[0].Score, 1e-9)
}

func TestChat(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/start", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s-1", r.URL.Query().Get("user_id"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"response": map[string]any{
				"message":     "Hi! What interests you?",
				"stage":       "greeting",
				"progress":    0,
				"suggestions": []string{"Tech", "Art"},
			},
		})
	})
	mux.HandleFunc("POST /chat/message", func(w http.ResponseWriter, r *http.Request) {
		var in chatMessageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "s-1", in.UserID)
		switch in.Message {
		case "fail":
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "model overloaded"})
		case "empty":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "response": map[string]any{"message": ""}})
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"response": map[string]any{
					"message":  "Let's look at your resume.",
					"stage":    "recommendations",
					"progress": 120,
					"recommendations": []map[string]any{
						{"title": "UX Designer", "match_score": 0.85, "key_skills": []string{"Figma"}, "reasoning": "creative"},
					},
					"actions": []string{"upload_resume"},
					"action":  remote.ActionEscalate,
				},
			})
		}
	})
	mux.HandleFunc("POST /chat/reset/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": r.PathValue("id") == "s-1"})
	})
	mux.HandleFunc("GET /chat/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"summary": map[string]any{"user_id": r.PathValue("id"), "stage": "skills", "conversation_length": 4},
		})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	greet, err := c.StartChat(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Hi! What interests you?", greet.Message)
	assert.Equal(t, []string{"Tech", "Art"}, greet.Suggestions)
	assert.Nil(t, greet.Metadata)

	reply, err := c.SendChatMessage(ctx, "s-1", "I have a resume")
	require.NoError(t, err)
	assert.True(t, reply.Escalates())
	assert.Equal(t, 100, reply.Progress)
	assert.Equal(t, []string{}, reply.Suggestions)
	require.NotNil(t, reply.Metadata)
	assert.Equal(t, "UX Designer", reply.Metadata.Recommendations[0].Title)
	assert.InDelta(t, 85.0, reply.Metadata.Recommendations[0].MatchScore, 1e-9)
	assert.Equal(t, []string{"upload_resume"}, reply.Metadata.Actions)

	_, err = c.SendChatMessage(ctx, "s-1", "fail")
	assert.ErrorIs(t, err, remote.ErrChatMessage)
	assert.Equal(t, "model overloaded", remote.Cause(err))

	_, err = c.SendChatMessage(ctx, "s-1", "empty")
	assert.ErrorIs(t, err, remote.ErrChatMessage)

	assert.NoError(t, c.ResetChat(ctx, "s-1"))
	assert.ErrorIs(t, c.ResetChat(ctx, "other"), remote.ErrChatReset)

	sum, err := c.ChatSummary(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "skills", sum.Stage)
	assert.Equal(t, 4, sum.ConversationLength)
}

func TestStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "running", "model": "gemini", "version": "1.0"})
	})
	c := newTestClient(t, mux)

	st, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "running", st.Status)
	assert.Equal(t, "gemini", st.Model)
}

func TestContextCancel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /parse_resume/", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	c := newTestClient(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.FetchParsedResume(ctx, "cv.pdf")
	assert.ErrorIs(t, err, remote.ErrParse)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMatchPercent(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.85, 85},
		{1, 100},
		{0, 0},
		{87.5, 87.5},
		{140, 100},
		{-0.2, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, matchPercent(tt.in), 1e-9, "score %v", tt.in)
	}
}
