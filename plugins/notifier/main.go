package main

import (
	"context"
	"os"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	reminderout "tempo/internal/modules/reminder/adapter/out"
	notifierrpc "tempo/internal/modules/reminder/adapter/out/rpc"
	"tempo/internal/modules/reminder/domain"
	"tempo/internal/platform/id"
)

type server struct {
	timers *reminderout.LocalNotifier
}

func (s *server) RequestPermission(context.Context, *notifierrpc.Empty) (*notifierrpc.PermissionResponse, error) {
	return &notifierrpc.PermissionResponse{Granted: true}, nil
}

func (s *server) Schedule(ctx context.Context, in *notifierrpc.ScheduleRequest) (*notifierrpc.ScheduleResponse, error) {
	if in.TriggerInMS < 0 {
		return nil, status.Error(codes.InvalidArgument, "trigger must not be in the past")
	}
	handle, err := s.timers.Schedule(ctx, domain.Content{Title: in.Title, Body: in.Body}, time.Duration(in.TriggerInMS)*time.Millisecond)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &notifierrpc.ScheduleResponse{Handle: handle}, nil
}

func (s *server) Cancel(ctx context.Context, in *notifierrpc.CancelRequest) (*notifierrpc.Empty, error) {
	if err := s.timers.Cancel(ctx, in.Handle); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &notifierrpc.Empty{}, nil
}

// desktopDelivery shows reminders through notify-send when available. The
// plugin's stderr is forwarded to the host log either way.
func desktopDelivery(logger hclog.Logger) reminderout.Delivery {
	fallback := reminderout.WriterDelivery(os.Stderr, logger)
	notifySend, lookErr := exec.LookPath("notify-send")
	return func(content domain.Content) {
		if lookErr != nil {
			fallback(content)
			return
		}
		if err := exec.Command(notifySend, content.Title, content.Body).Run(); err != nil {
			logger.Warn("notify-send failed", "error", err)
			fallback(content)
		}
	}
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{Name: "notifier", Output: os.Stderr, JSONFormat: true})
	timers := reminderout.NewLocalNotifier(id.UUID{}, desktopDelivery(logger))
	defer timers.Close()

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: notifierrpc.HandshakeConfig,
		Plugins:         notifierrpc.PluginMap(&server{timers: timers}),
		GRPCServer:      plugin.DefaultGRPCServer,
		Logger:          logger,
	})
}
