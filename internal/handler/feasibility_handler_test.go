package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
	appErrors "github.com/nakul-26/timetable-precheck-api/pkg/errors"
)

type mockAnalyzer struct {
	report    *dto.FeasibilityReport
	runs      []dto.AnalysisRunSummary
	err       error
	calls     int
	lastReq   dto.AnalyzeTimetableRequest
	lastLim   int
	lastRunID string
}

func (m *mockAnalyzer) Analyze(_ context.Context, req dto.AnalyzeTimetableRequest) (*dto.FeasibilityReport, error) {
	m.calls++
	m.lastReq = req
	return m.report, m.err
}

func (m *mockAnalyzer) ListRuns(_ context.Context, limit int) ([]dto.AnalysisRunSummary, error) {
	m.calls++
	m.lastLim = limit
	return m.runs, m.err
}

func (m *mockAnalyzer) GetRunReport(_ context.Context, id string) (*dto.FeasibilityReport, error) {
	m.calls++
	m.lastRunID = id
	return m.report, m.err
}

func testContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, rec
}

func TestAnalyzeReturnsReport(t *testing.T) {
	mock := &mockAnalyzer{report: &dto.FeasibilityReport{OK: true}}
	h := &FeasibilityHandler{service: mock}

	payload := []byte(`{"classes":[{"id":"c1","name":"10A"}]}`)
	c, rec := testContext(t, http.MethodPost, "/timetable/feasibility", payload)

	h.Analyze(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, mock.calls)
	require.Len(t, mock.lastReq.Classes, 1)
	assert.Equal(t, "c1", mock.lastReq.Classes[0].ID.String())

	var envelope struct {
		Data dto.FeasibilityReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.OK)
}

func TestAnalyzeRejectsMalformedJSON(t *testing.T) {
	mock := &mockAnalyzer{}
	h := &FeasibilityHandler{service: mock}

	c, rec := testContext(t, http.MethodPost, "/timetable/feasibility", []byte(`{"classes":`))

	h.Analyze(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, mock.calls)
}

func TestAnalyzeAcceptsNumericIDs(t *testing.T) {
	mock := &mockAnalyzer{report: &dto.FeasibilityReport{OK: true}}
	h := &FeasibilityHandler{service: mock}

	payload := []byte(`{"faculties":[{"id":42,"name":"Alice"}]}`)
	c, rec := testContext(t, http.MethodPost, "/timetable/feasibility", payload)

	h.Analyze(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, mock.lastReq.Faculties, 1)
	assert.Equal(t, "42", mock.lastReq.Faculties[0].ID.String())
}

func TestAnalyzeRejectsOversizedRoster(t *testing.T) {
	mock := &mockAnalyzer{}
	h := &FeasibilityHandler{service: mock}

	req := dto.AnalyzeTimetableRequest{}
	for i := 0; i < maxRosterEntities+1; i++ {
		req.Faculties = append(req.Faculties, dto.FacultyInput{Name: "x"})
	}
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	c, rec := testContext(t, http.MethodPost, "/timetable/feasibility", payload)

	h.Analyze(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, mock.calls)
}

func TestListRunsParsesLimit(t *testing.T) {
	mock := &mockAnalyzer{runs: []dto.AnalysisRunSummary{{ID: "r1", OK: true}}}
	h := &FeasibilityHandler{service: mock}

	c, rec := testContext(t, http.MethodGet, "/timetable/feasibility/runs?limit=5", nil)

	h.ListRuns(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, mock.lastLim)
	assert.Contains(t, rec.Body.String(), `"r1"`)
}

func TestListRunsRejectsBadLimit(t *testing.T) {
	mock := &mockAnalyzer{}
	h := &FeasibilityHandler{service: mock}

	c, rec := testContext(t, http.MethodGet, "/timetable/feasibility/runs?limit=abc", nil)

	h.ListRuns(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, mock.calls)
}

func TestGetRunPropagatesNotFound(t *testing.T) {
	mock := &mockAnalyzer{err: appErrors.ErrNotFound}
	h := &FeasibilityHandler{service: mock}

	c, rec := testContext(t, http.MethodGet, "/timetable/feasibility/runs/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.GetRun(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing", mock.lastRunID)
}
