package out

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"tempo/internal/modules/reminder/domain"
	"tempo/internal/observability"
	"tempo/internal/platform/id"
)

// Delivery presents a fired reminder to the user.
type Delivery func(content domain.Content)

// WriterDelivery prints reminders to w and logs them.
func WriterDelivery(w io.Writer, logger hclog.Logger) Delivery {
	return func(content domain.Content) {
		if logger != nil {
			logger.Info("reminder fired", "title", content.Title, "body", content.Body)
		}
		if w != nil {
			_, _ = fmt.Fprintf(w, "%s: %s\n", content.Title, content.Body)
		}
	}
}

// LocalNotifier fires reminders from in-process timers. Pending reminders
// die with the process.
type LocalNotifier struct {
	ids     id.Generator
	deliver Delivery

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewLocalNotifier(ids id.Generator, deliver Delivery) *LocalNotifier {
	return &LocalNotifier{ids: ids, deliver: deliver, timers: map[string]*time.Timer{}}
}

func (n *LocalNotifier) Supported() bool { return true }

func (n *LocalNotifier) RequestPermission(context.Context) (bool, error) { return true, nil }

func (n *LocalNotifier) Schedule(_ context.Context, content domain.Content, triggerIn time.Duration) (string, error) {
	if triggerIn < 0 {
		return "", fmt.Errorf("trigger must not be in the past: %s", triggerIn)
	}
	handle := n.ids.New()
	n.mu.Lock()
	defer n.mu.Unlock()
	n.timers[handle] = time.AfterFunc(triggerIn, func() {
		n.mu.Lock()
		_, live := n.timers[handle]
		delete(n.timers, handle)
		n.mu.Unlock()
		if !live {
			return
		}
		observability.ReminderDelivered()
		if n.deliver != nil {
			n.deliver(content)
		}
	})
	return handle, nil
}

// Cancel stops a pending reminder. Unknown or already fired handles are ignored.
func (n *LocalNotifier) Cancel(_ context.Context, handle string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if timer, ok := n.timers[handle]; ok {
		timer.Stop()
		delete(n.timers, handle)
	}
	return nil
}

func (n *LocalNotifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.timers)
}

func (n *LocalNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for handle, timer := range n.timers {
		timer.Stop()
		delete(n.timers, handle)
	}
}
