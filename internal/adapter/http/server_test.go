package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/couchcryptid/address-enrichment/internal/adapter/http"
	"github.com/couchcryptid/address-enrichment/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEnricher struct {
	report    domain.BatchReport
	err       error
	gotIDs    []string
	gotBatch  bool
	callCount int
}

func (m *mockEnricher) Enrich(_ context.Context, ids []string, batchMode bool) (domain.BatchReport, error) {
	m.callCount++
	m.gotIDs = ids
	m.gotBatch = batchMode
	return m.report, m.err
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(enricher *mockEnricher, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", enricher, &mockReadiness{err: readyErr}, slog.Default())
}

func postEnrichment(srv *httpadapter.Server, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/enrichment", strings.NewReader(body))
	srv.ServeHTTP(rec, req)
	return rec
}

func TestEnrichmentReturnsReport(t *testing.T) {
	enricher := &mockEnricher{report: domain.BatchReport{
		Message:  "enriched 2 of 3 places",
		Enriched: 2,
		Total:    3,
		Errors:   []string{"no address found for place p3"},
	}}
	srv := newTestServer(enricher, nil)

	rec := postEnrichment(srv, `{"ids":["p1","p2","p3"],"batch":true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"p1", "p2", "p3"}, enricher.gotIDs)
	assert.True(t, enricher.gotBatch)

	var report domain.BatchReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Enriched)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, []string{"no address found for place p3"}, report.Errors)
}

func TestEnrichmentOmitsEmptyErrors(t *testing.T) {
	enricher := &mockEnricher{report: domain.BatchReport{
		Message:  "enriched 1 of 1 places",
		Enriched: 1,
		Total:    1,
	}}
	srv := newTestServer(enricher, nil)

	rec := postEnrichment(srv, `{"ids":["p1"]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "errors")
	assert.False(t, enricher.gotBatch, "batch defaults to false")
}

func TestEnrichmentReturns400OnEmptyIDs(t *testing.T) {
	enricher := &mockEnricher{}
	srv := newTestServer(enricher, nil)

	for _, body := range []string{`{"ids":[]}`, `{"batch":true}`} {
		rec := postEnrichment(srv, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
	assert.Zero(t, enricher.callCount, "no enrichment may start on invalid input")
}

func TestEnrichmentReturns400OnMalformedBody(t *testing.T) {
	srv := newTestServer(&mockEnricher{}, nil)

	rec := postEnrichment(srv, `not-json{{{`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrichmentReturns500OnServiceFailure(t *testing.T) {
	enricher := &mockEnricher{err: errors.New("select places: connection refused")}
	srv := newTestServer(enricher, nil)

	rec := postEnrichment(srv, `{"ids":["p1"]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "enrichment failed", body["error"])
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockEnricher{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockEnricher{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockEnricher{}, fmt.Errorf("database unreachable"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "database unreachable", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockEnricher{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
