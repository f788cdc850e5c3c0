package out

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	notifierrpc "tempo/internal/modules/reminder/adapter/out/rpc"
	"tempo/internal/modules/reminder/domain"
	apperrors "tempo/internal/platform/errors"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// PluginNotifier forwards reminders to an out-of-process notifier over
// go-plugin gRPC. The plugin process is started on first use and restarted
// if it exits.
type PluginNotifier struct {
	binary string
	logger hclog.Logger

	mu     sync.Mutex
	client *plugin.Client
	rpc    notifierrpc.NotifierClient
}

func NewPluginNotifier(binary string, logger hclog.Logger) *PluginNotifier {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PluginNotifier{binary: binary, logger: logger}
}

func (n *PluginNotifier) Supported() bool { return true }

func (n *PluginNotifier) RequestPermission(ctx context.Context) (bool, error) {
	client, err := n.connect()
	if err != nil {
		return false, err
	}
	callCtx, cancel := n.callContext(ctx, defaultCallTimeout)
	defer cancel()
	resp, err := client.RequestPermission(callCtx)
	if err != nil {
		return false, fmt.Errorf("request permission: %w", err)
	}
	return resp.Granted, nil
}

func (n *PluginNotifier) Schedule(ctx context.Context, content domain.Content, triggerIn time.Duration) (string, error) {
	client, err := n.connect()
	if err != nil {
		return "", err
	}
	callCtx, cancel := n.callContext(ctx, defaultCallTimeout)
	defer cancel()
	resp, err := client.Schedule(callCtx, &notifierrpc.ScheduleRequest{
		Title:       content.Title,
		Body:        content.Body,
		TriggerInMS: triggerIn.Milliseconds(),
	})
	if err != nil {
		return "", classify(err, apperrors.CauseScheduleFailed)
	}
	return resp.Handle, nil
}

func (n *PluginNotifier) Cancel(ctx context.Context, handle string) error {
	client, err := n.connect()
	if err != nil {
		return err
	}
	callCtx, cancel := n.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if err := client.Cancel(callCtx, &notifierrpc.CancelRequest{Handle: handle}); err != nil {
		return classify(err, apperrors.CauseCancelFailed)
	}
	return nil
}

func (n *PluginNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.client != nil {
		n.client.Kill()
		n.client = nil
		n.rpc = nil
	}
}

func (n *PluginNotifier) connect() (notifierrpc.NotifierClient, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.client != nil && !n.client.Exited() {
		return n.rpc, nil
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  notifierrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          notifierrpc.PluginMap(nil),
		Cmd:              exec.Command(n.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           n.logger.Named("plugin"),
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start notifier plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(notifierrpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense notifier plugin: %w", err)
	}
	typed, ok := raw.(notifierrpc.NotifierClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("notifier rpc client type mismatch")
	}
	n.client = client
	n.rpc = typed
	return typed, nil
}

func (n *PluginNotifier) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func classify(err error, fallback apperrors.NotificationCause) error {
	switch status.Code(err) {
	case codes.PermissionDenied:
		return &apperrors.NotificationError{Cause: apperrors.CausePermissionDenied, Err: err}
	case codes.Unimplemented:
		return &apperrors.NotificationError{Cause: apperrors.CausePlatformUnsupported, Err: err}
	default:
		return &apperrors.NotificationError{Cause: fallback, Err: err}
	}
}
