package services

import (
	"sync"
	"time"

	"contract-explorer-service/internal/platform/obs"

	"github.com/google/uuid"
)

type ToastKind string

const (
	ToastError ToastKind = "error"
	ToastInfo  ToastKind = "info"
)

type Toast struct {
	ID        string
	Kind      ToastKind
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Toaster is the single notification slot of a session. A new toast replaces
// the current one; toasts dismiss themselves after the configured duration.
type Toaster struct {
	duration time.Duration

	mu      sync.Mutex
	current *Toast
	timer   *time.Timer
	emitted int
}

func NewToaster(duration time.Duration) *Toaster {
	if duration <= 0 {
		duration = 4 * time.Second
	}
	return &Toaster{duration: duration}
}

func (t *Toaster) Show(kind ToastKind, message string) Toast {
	now := time.Now()
	toast := Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(t.duration),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.current = &toast
	t.emitted++
	t.timer = time.AfterFunc(t.duration, func() { t.Dismiss(toast.ID) })

	obs.ToastsTotal.WithLabelValues(string(kind)).Inc()
	return toast
}

func (t *Toaster) Current() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Toast{}, false
	}
	return *t.current, true
}

// Dismiss clears the toast if it is still the current one.
func (t *Toaster) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || t.current.ID != id {
		return false
	}
	t.current = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	return true
}

// Emitted counts every toast shown since the session started.
func (t *Toaster) Emitted() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.emitted
}
