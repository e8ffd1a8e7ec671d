package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandipurcablecar/website-sub001/internal/platform/requestctx"
)

func TestParseCloudTraceContext(t *testing.T) {
	info, spanCtx, ok := parseCloudTraceContext("105445aa7843bc8bf206b12000100000/1;o=1")
	require.True(t, ok)
	assert.Equal(t, "105445aa7843bc8bf206b12000100000", info.TraceID)
	assert.Equal(t, "0000000000000001", info.SpanID)
	assert.True(t, info.Sampled)
	assert.True(t, spanCtx.IsRemote())
}

func TestParseCloudTraceContextRejectsGarbage(t *testing.T) {
	for _, header := range []string{"", "abc", "105445aa7843bc8bf206b12000100000", "xyz/1;o=1", "105445aa7843bc8bf206b12000100000/zz"} {
		_, _, ok := parseCloudTraceContext(header)
		assert.False(t, ok, header)
	}
}

func TestTraceMiddlewareStoresTraceInfo(t *testing.T) {
	var got requestctx.TraceInfo
	handler := TraceMiddleware("bandipur-prod")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = requestctx.Trace(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.Header.Set(cloudTraceHeader, "105445aa7843bc8bf206b12000100000/1;o=0")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "bandipur-prod", got.ProjectID)
	assert.Equal(t, "105445aa7843bc8bf206b12000100000", got.TraceID)
}

func TestRecoveryMiddlewareWritesJSON(t *testing.T) {
	handler := RecoveryMiddleware(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_server_error")
}

func TestSanitizeRoute(t *testing.T) {
	assert.Equal(t, "/", SanitizeRoute(""))
	assert.Equal(t, "/about", SanitizeRoute("/ab\x00out"))
}
