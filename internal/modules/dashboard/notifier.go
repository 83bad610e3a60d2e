package dashboard

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultToastTTL is how long a toast stays on screen
const DefaultToastTTL = 5 * time.Second

// Toast is one visible error notification
type Toast struct {
	Title   string
	Message string
	Expires time.Time
}

// ToastQueue collects error notifications for the dashboard footer and logs them
type ToastQueue struct {
	toasts []Toast
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// NewToastQueue creates an empty queue
func NewToastQueue(ttl time.Duration, log zerolog.Logger) *ToastQueue {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &ToastQueue{
		ttl: ttl,
		now: time.Now,
		log: log.With().Str("component", "notifier").Logger(),
	}
}

// NotifyError queues a toast
func (q *ToastQueue) NotifyError(title, message string) {
	q.log.Error().Str("title", title).Msg(message)
	q.toasts = append(q.toasts, Toast{
		Title:   title,
		Message: message,
		Expires: q.now().Add(q.ttl),
	})
}

// Active returns the toasts that have not expired, oldest first
func (q *ToastQueue) Active() []Toast {
	now := q.now()
	active := make([]Toast, 0, len(q.toasts))
	for _, t := range q.toasts {
		if now.Before(t.Expires) {
			active = append(active, t)
		}
	}
	return active
}

// Expire drops toasts whose time has passed and reports whether any remain
func (q *ToastQueue) Expire() bool {
	q.toasts = q.Active()
	return len(q.toasts) > 0
}

// Len returns the number of queued toasts, expired or not
func (q *ToastQueue) Len() int {
	return len(q.toasts)
}

// LogNotifier reports errors to the log only. Used outside the TUI.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a notifier that logs at error level
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notifier").Logger()}
}

// NotifyError logs the notification
func (n *LogNotifier) NotifyError(title, message string) {
	n.log.Error().Str("title", title).Msg(message)
}
