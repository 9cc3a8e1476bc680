package logger

import (
	"Mintora/internal/api/config"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// accessLog gin 访问日志，字段与 slog JSON 输出保持一致以便 Logstash 统一解析
type accessLog struct {
	Time        string `json:"time"`
	Level       string `json:"level"`
	Msg         string `json:"msg"`
	TraceID     string `json:"trace_id,omitempty"`
	LogToken    string `json:"log_token,omitempty"`
	TargetIndex string `json:"target_index,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Status      int    `json:"status"`
	Latency     string `json:"latency"`
	ClientIP    string `json:"client_ip"`
	BodySize    int    `json:"body_size"`
	Creator     string `json:"creator_id,omitempty"`
}

// creatorKey 需与 consts.CreatorIDKey 保持一致
const creatorKey = "creator_id"

func SetupGin(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		Formatter: formatAccessLog,
	}))

	r.Use(gin.Recovery())
}

func formatAccessLog(p gin.LogFormatterParams) string {
	entry := accessLog{
		Time:     p.TimeStamp.Format(time.RFC3339),
		Level:    "INFO",
		Msg:      "GIN_ACCESS",
		Method:   p.Method,
		Path:     p.Path,
		Status:   p.StatusCode,
		Latency:  p.Latency.String(),
		ClientIP: p.ClientIP,
		BodySize: p.BodySize,
	}

	if p.Keys != nil {
		if id, ok := p.Keys[TraceIDKey].(string); ok {
			entry.TraceID = id
		}
		if creator, ok := p.Keys[creatorKey].(string); ok {
			entry.Creator = creator
		}
	}
	if entry.TraceID == "" && p.Request != nil {
		entry.TraceID = TraceIDFrom(p.Request.Context())
	}

	if config.Cfg != nil {
		entry.LogToken = config.Cfg.Logstash.Token
		entry.TargetIndex = config.Cfg.Logstash.Index
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return ""
	}
	return string(data) + "\n"
}
