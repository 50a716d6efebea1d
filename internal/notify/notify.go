package notify

import (
	"github.com/gen2brain/beeep"

	"chat-client/internal/utils"
)

// Notifier delivers best-effort local notifications. Implementations never
// fail and never queue.
type Notifier interface {
	Notify(title, body string)
}

// Desktop shows a system notification when the user has enabled them.
// Delivery failures are logged and otherwise ignored.
type Desktop struct {
	enabled bool
}

func NewDesktop(enabled bool) *Desktop {
	return &Desktop{enabled: enabled}
}

func (d *Desktop) Notify(title, body string) {
	if !d.enabled {
		return
	}
	utils.LogError(beeep.Notify(title, body, ""), "Notify")
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(string, string) {}
