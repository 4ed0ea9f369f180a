// Package audit records profile change log entries.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hoaportal/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Redacted replaces sensitive values before they reach the log.
const Redacted = "[HIDDEN]"

// RequestContext is the client metadata attached to each entry.
type RequestContext struct {
	IP        string
	UserAgent string
}

// ClientIP returns the first X-Forwarded-For entry if present, else the peer address.
func ClientIP(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return remoteAddr
}

// FromFiber builds a RequestContext from the current request.
func FromFiber(c *fiber.Ctx) RequestContext {
	return RequestContext{
		IP:        ClientIP(c.Get(fiber.HeaderXForwardedFor), c.Context().RemoteIP().String()),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}

// Appender persists a change log entry. Callers pass the repository bound to
// their transaction so the entry commits or rolls back with the mutation.
type Appender interface {
	Create(ctx context.Context, entry *models.ProfileChangeLog) error
}

type Logger struct {
	log *zap.Logger
	now func() time.Time
}

func NewLogger(log *zap.Logger, now func() time.Time) *Logger {
	if now == nil {
		now = time.Now
	}
	return &Logger{log: log, now: now}
}

// Record appends one entry. old and new are stringified; the logger does not
// redact, callers pass Redacted for sensitive fields.
func (l *Logger) Record(ctx context.Context, logs Appender, userID uuid.UUID, kind models.ChangeKind, field string, old, new interface{}, rc RequestContext) error {
	entry := &models.ProfileChangeLog{
		UserID:     userID,
		ChangeType: kind,
		FieldName:  field,
		OldValue:   Stringify(old),
		NewValue:   Stringify(new),
		IPAddress:  rc.IP,
		UserAgent:  rc.UserAgent,
		Timestamp:  l.now(),
	}
	if err := logs.Create(ctx, entry); err != nil {
		l.log.Error("failed to record profile change",
			zap.String("user_id", userID.String()),
			zap.String("change_type", string(kind)),
			zap.String("field", field),
			zap.Error(err))
		return fmt.Errorf("record %s change: %w", kind, err)
	}
	return nil
}

// Stringify renders a field value as text. nil and empty values become "";
// false and 0 are values and render as such.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(time.RFC3339)
	case *time.Time: // calendar dates
		if val == nil || val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")
	case models.JSON:
		if len(val) == 0 {
			return ""
		}
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
