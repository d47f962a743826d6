package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"netdev-go/internal/config"
	"netdev-go/internal/logger"
	"netdev-go/internal/observability"

	"github.com/gin-gonic/gin"
)

// Two access tiers: read covers the query surface, ops additionally
// covers adapter reconfiguration.
const (
	roleRead = "read"
	roleOps  = "ops"
)

func roleAllowed(actual string, required string) bool {
	if strings.EqualFold(actual, roleOps) {
		return true
	}
	return strings.EqualFold(actual, roleRead) && strings.EqualFold(required, roleRead)
}

// AuthMiddleware resolves the request token against the configured
// token list and stores the matched role in the context. With auth
// disabled every request runs as ops.
func AuthMiddleware(cfg config.SecurityConfig, log *logger.Logger) gin.HandlerFunc {
	roles := tokenRoles(cfg)
	return func(c *gin.Context) {
		if !cfg.Enabled || !cfg.RequireAuth {
			c.Set("role", roleOps)
			c.Next()
			return
		}
		if len(roles) == 0 {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "auth not configured"})
			return
		}
		role, ok := roles[clientToken(c)]
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if log != nil {
			log.Debug("auth ok", map[string]any{"role": role, "path": c.FullPath()})
		}
		c.Set("role", role)
		c.Next()
	}
}

func tokenRoles(cfg config.SecurityConfig) map[string]string {
	roles := make(map[string]string, len(cfg.Tokens))
	for _, token := range cfg.Tokens {
		value := config.ResolveSecret(token.Value)
		if value == "" || token.Role == "" {
			continue
		}
		roles[value] = strings.ToLower(token.Role)
	}
	return roles
}

func clientToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader("X-API-Key")); token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("role")
		if !ok {
			c.Next()
			return
		}
		if !roleAllowed(v.(string), required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// AuditMiddleware logs every mutation after the handler ran.
func AuditMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if log == nil || c.Request.Method == http.MethodGet {
			return
		}
		role := c.GetString("role")
		if role == "" {
			role = roleRead
		}
		log.Info("audit", map[string]any{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
			"role":   role,
		})
	}
}

// TraceMiddleware records each request into the trace store and echoes
// the trace id back to the client.
func TraceMiddleware(store *observability.Store) gin.HandlerFunc {
	if store == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return func(c *gin.Context) {
		start := time.Now()
		traceID := strings.TrimSpace(c.GetHeader("X-Trace-Id"))
		if traceID == "" {
			traceID = newTraceID()
		}
		c.Set("trace_id", traceID)
		c.Header("X-Trace-Id", traceID)
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		store.Add(observability.Trace{
			ID:         traceID,
			Method:     c.Request.Method,
			Path:       path,
			Status:     c.Writer.Status(),
			DurationMs: time.Since(start).Milliseconds(),
			Timestamp:  time.Now().Unix(),
			ClientIP:   c.ClientIP(),
		})
	}
}

func newTraceID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().Format("20060102150405.000000000")))
	}
	return hex.EncodeToString(buf)
}
