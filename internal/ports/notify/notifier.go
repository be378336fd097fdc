package notify

import (
	"context"
	"time"
)

// Notification es el payload genérico que se manda al canal configurado
// (webhook, cola, etc.). El core no depende de cómo se entrega.
type Notification struct {
	Kind       string         `json:"kind"` // p.ej. "schedule.event_created"
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Notifier entrega notificaciones best-effort: los errores se loguean,
// nunca bloquean la operación que las originó.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
