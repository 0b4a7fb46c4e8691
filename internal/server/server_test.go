package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchiq/matchiq/internal/async"
	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/core"
	"github.com/matchiq/matchiq/internal/entity"
	"github.com/matchiq/matchiq/internal/export"
	"github.com/matchiq/matchiq/internal/ingest"
	"github.com/matchiq/matchiq/internal/llm"
	"github.com/matchiq/matchiq/internal/repository"
)

// inlineQueue runs the pipeline synchronously inside Enqueue so handlers can
// be asserted against terminal state without polling.
type inlineQueue struct {
	process async.ProcessFunc
}

func (q *inlineQueue) Enqueue(ctx context.Context, job async.Job) error {
	return q.process(ctx, job.JobID)
}

func (q *inlineQueue) Shutdown(context.Context) {}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewMemoryRepository(logger)

	orch := core.NewOrchestrator(repo, llm.FallbackGenerator{}, nil, logger)
	orch.SetQueue(&inlineQueue{process: orch.Process})

	fetcher := ingest.NewFetcher(5*time.Second, logger)
	exporter := export.NewService(repo, logger)
	api := NewServer(orch, fetcher, exporter, common.IngestConfig{}, logger)

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	bs, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(bs))
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSubmitAndFetchResult(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/optimizations", map[string]string{
		"resumeText":     "Experienced Java and Spring Boot engineer with AWS exposure.",
		"jobDescription": "Java engineer role requiring Spring Boot, AWS, Docker skills.",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	sub := decodeJSON[submissionResponse](t, resp)
	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.Equal(t, entity.StatusPending, sub.Status)

	getResp, err := http.Get(srv.URL + "/api/optimizations/" + sub.ID.String())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	result := decodeJSON[resultResponse](t, getResp)
	assert.Equal(t, sub.ID, result.ID)
	assert.Equal(t, entity.StatusCompleted, result.Status)
	require.NotNil(t, result.ATSScore)
	assert.GreaterOrEqual(t, *result.ATSScore, 0)
	assert.NotEmpty(t, result.ExtractedKeywords)
	require.NotNil(t, result.OptimizedBulletPoints)
	require.NotNil(t, result.TailoredCoverLetter)
	assert.Nil(t, result.ErrorMessage)
}

func TestSubmitValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]any{
		"missing resume": map[string]string{"jobDescription": "job"},
		"missing job":    map[string]string{"resumeText": "resume"},
		"empty resume":   map[string]string{"resumeText": "", "jobDescription": "job"},
		"blank resume":   map[string]string{"resumeText": "   ", "jobDescription": "job"},
		"unknown field":  map[string]string{"resumeText": "r", "jobDescription": "j", "extra": "nope"},
		"wrong type":     map[string]any{"resumeText": 42, "jobDescription": "j"},
		"empty object":   map[string]string{},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/optimizations", body)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSubmitRejectsMalformedJSON(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/optimizations", "application/json",
		strings.NewReader(`{"resumeText": `))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetInvalidID(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/optimizations/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUnknownID(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/optimizations/" + uuid.NewString())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadResume(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resumeFile", "resume.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Senior Go engineer with Kubernetes experience."))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("jobDescription", "Go engineer role with Kubernetes and Docker."))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/optimizations/upload-resume", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	sub := decodeJSON[submissionResponse](t, resp)
	assert.NotEqual(t, uuid.Nil, sub.ID)
}

func TestUploadResumeRejectsBinaryFormat(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resumeFile", "resume.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("jobDescription", "any role"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/optimizations/upload-resume", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFetchJobSubmission(t *testing.T) {
	jobPage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Platform Engineer</h1><p>Terraform and Kubernetes required.</p></body></html>")
	}))
	defer jobPage.Close()

	srv := newTestServer(t)
	form := strings.NewReader("resumeText=Terraform+specialist&jobUrl=" + jobPage.URL)
	resp, err := http.Post(srv.URL+"/api/optimizations/fetch-job",
		"application/x-www-form-urlencoded", form)
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	sub := decodeJSON[submissionResponse](t, resp)

	getResp, err := http.Get(srv.URL + "/api/optimizations/" + sub.ID.String())
	require.NoError(t, err)
	result := decodeJSON[resultResponse](t, getResp)
	assert.Equal(t, entity.StatusCompleted, result.Status)
	assert.Contains(t, result.ExtractedKeywords, "terraform")
	assert.Contains(t, result.ExtractedKeywords, "kubernetes")
}

func TestFetchJobRejectsBadURL(t *testing.T) {
	srv := newTestServer(t)
	form := strings.NewReader("resumeText=engineer&jobUrl=ftp://bad")
	resp, err := http.Post(srv.URL+"/api/optimizations/fetch-job",
		"application/x-www-form-urlencoded", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportXLSX(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/optimizations", map[string]string{
		"resumeText":     "resume text",
		"jobDescription": "golang developer position",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	expResp, err := http.Get(srv.URL + "/api/optimizations/export")
	require.NoError(t, err)
	defer expResp.Body.Close()
	require.Equal(t, http.StatusOK, expResp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		expResp.Header.Get("Content-Type"))
	assert.Contains(t, expResp.Header.Get("Content-Disposition"), "optimizations.xlsx")

	data, err := io.ReadAll(expResp.Body)
	require.NoError(t, err)
	// xlsx files are zip archives
	require.Greater(t, len(data), 4)
	assert.Equal(t, []byte("PK"), data[:2])
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/optimizations", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
}
