package services

import (
	"context"
	"encoding/json"
	"log"
)

// Publisher sends audit events to a broker channel. *mq.MQ satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// AuditEvent records a state-changing operation.
type AuditEvent struct {
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	ID       int    `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
}

// publishAudit emits an event best-effort. Broker failures are logged and
// never propagate to the caller; the request already succeeded.
func publishAudit(ctx context.Context, pub Publisher, channel string, event AuditEvent) {
	if pub == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("audit: marshal event: %v", err)
		return
	}
	attrs := map[string]string{"entity": event.Entity, "action": event.Action}
	if _, err := pub.Publish(ctx, channel, data, attrs); err != nil {
		log.Printf("audit: publish %s.%s: %v", event.Entity, event.Action, err)
	}
}
