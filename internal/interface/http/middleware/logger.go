package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/mall/pkg/tracing"
)

const (
	headerRequestID  = "X-Request-ID"
	slowRequestAfter = 3 * time.Second
)

// Logger 请求日志中间件
//
// 1. 沿用上游传入的X-Request-ID，没有则生成uuid
// 2. 记录方法、路由、状态码、耗时、客户端IP
// 3. 慢请求单独告警
//
// 不记录请求体和Authorization头
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(headerRequestID, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := tracing.TraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request", fields...)
		case latency > slowRequestAfter:
			logger.Warn("slow request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
