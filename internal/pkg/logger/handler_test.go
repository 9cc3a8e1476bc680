package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRemoteFilterOnlyForwardsTracedRecords(t *testing.T) {
	var local, remote bytes.Buffer
	h := &ContextHandler{&TeeHandler{handlers: []log.Handler{
		log.NewJSONHandler(&local, nil),
		&RemoteFilterHandler{next: log.NewJSONHandler(&remote, nil)},
	}}}
	l := log.New(h)

	l.InfoContext(context.Background(), "untraced")
	l.InfoContext(WithTraceID(context.Background(), "trace-1"), "traced")

	assert.Contains(t, local.String(), "untraced")
	assert.Contains(t, local.String(), "traced")
	assert.NotContains(t, remote.String(), "untraced")
	assert.Contains(t, remote.String(), `"trace_id":"trace-1"`)
}

func TestTruncate(t *testing.T) {
	short := "select 1"
	assert.Equal(t, short, truncate(short))

	long := strings.Repeat("x", maxLoggedBody+10)
	got := truncate(long)
	assert.True(t, strings.HasSuffix(got, "...[truncated]"))
	assert.Len(t, got, maxLoggedBody+len("...[truncated]"))
}

func TestFormatAccessLog(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(TraceIDKey, "trace-9")
	c.Set(creatorKey, "0xabc")

	line := formatAccessLog(gin.LogFormatterParams{
		TimeStamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		StatusCode: 201,
		Latency:    15 * time.Millisecond,
		Method:     "POST",
		Path:       `/api/content?q="x"`,
		Keys:       c.Keys,
	})

	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, `"trace_id":"trace-9"`)
	assert.Contains(t, line, `"creator_id":"0xabc"`)
	assert.Contains(t, line, `"status":201`)
	assert.Contains(t, line, `\"x\"`)
}
