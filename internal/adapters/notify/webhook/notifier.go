package webhook

import (
	"context"
	"strings"
	"time"

	"pest-field-service/internal/platform/httpclient"
	"pest-field-service/internal/platform/logger"
	"pest-field-service/internal/ports/notify"
)

// Notifier implementa notify.Notifier contra un webhook HTTP configurado
// por env (NOTIFY_WEBHOOK_URL). Best-effort: los errores se loguean y listo;
// nunca frenan la operación que disparó la notificación.
type Notifier struct {
	client *httpclient.Client
	url    string
	log    logger.Logger
}

func NewNotifier(url string, client *httpclient.Client, log logger.Logger) *Notifier {
	if client == nil {
		client = httpclient.New(5 * time.Second)
	}
	return &Notifier{
		client: client,
		url:    strings.TrimSpace(url),
		log:    log,
	}
}

func (n *Notifier) Notify(ctx context.Context, msg notify.Notification) {
	if n == nil || n.url == "" {
		return
	}

	if err := n.client.PostJSON(ctx, n.url, nil, msg, nil); err != nil {
		if n.log != nil {
			n.log.Warn("webhook notify failed", map[string]any{
				"kind":  msg.Kind,
				"error": err.Error(),
			})
		}
	}
}
