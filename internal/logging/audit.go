package logging

import (
	"time"

	"go.uber.org/zap"
)

// AuditEventType names one step of a backend exchange.
type AuditEventType string

const (
	AuditRequestSent     AuditEventType = "request_sent"
	AuditRequestDone     AuditEventType = "request_done"
	AuditRequestFailed   AuditEventType = "request_failed"
	AuditRequestRejected AuditEventType = "request_rejected" // blocked by local validation
	AuditSessionReplaced AuditEventType = "session_replaced"
)

// AuditEvent is one structured record in the api category.
type AuditEvent struct {
	Type      AuditEventType
	RequestID string
	Endpoint  string
	Status    int
	Duration  time.Duration
	Err       error
}

// Audit writes an event to the api category log.
func Audit(ev AuditEvent) {
	l := Get(CategoryAPI)
	if l.sugar == nil {
		return
	}
	fields := []zap.Field{
		zap.String("event", string(ev.Type)),
		zap.String("endpoint", ev.Endpoint),
	}
	if ev.RequestID != "" {
		fields = append(fields, zap.String("req", ev.RequestID))
	}
	if ev.Status != 0 {
		fields = append(fields, zap.Int("status", ev.Status))
	}
	if ev.Duration > 0 {
		fields = append(fields, zap.Duration("duration", ev.Duration))
	}
	if ev.Err != nil {
		fields = append(fields, zap.Error(ev.Err))
		l.Zap().Warn("audit", fields...)
		return
	}
	l.Zap().Info("audit", fields...)
}
