package dashboard

import "time"

// ToastLifetime is how long a toast stays up before the UI dismisses it.
const ToastLifetime = 3500 * time.Millisecond

// ToastKind styles a toast.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a short user-facing notification. Only the latest one is shown.
type Toast struct {
	ID      string
	Kind    ToastKind
	Message string
}

func (p *Page) notify(kind ToastKind, message string) {
	p.toast = &Toast{ID: p.newID(), Kind: kind, Message: message}
}

// Toast returns the current toast, if any.
func (p *Page) Toast() (Toast, bool) {
	if p.toast == nil {
		return Toast{}, false
	}
	return *p.toast, true
}

// DismissToast clears the current toast when its id matches. Timers for replaced
// toasts are ignored.
func (p *Page) DismissToast(id string) bool {
	if p.toast == nil || p.toast.ID != id {
		return false
	}
	p.toast = nil
	return true
}
