package out_test

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	reminderout "tempo/internal/modules/reminder/adapter/out"
	"tempo/internal/modules/reminder/domain"
	"tempo/internal/platform/logging"
)

func TestPluginNotifierRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the notifier plugin")
	}
	binPath := buildNotifierPlugin(t)
	n := reminderout.NewPluginNotifier(binPath, logging.Discard())
	defer n.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	granted, err := n.RequestPermission(ctx)
	if err != nil || !granted {
		t.Fatalf("request permission: %v %v", granted, err)
	}
	handle, err := n.Schedule(ctx, domain.Content{Title: domain.Title, Body: "integration"}, time.Hour)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if handle == "" {
		t.Fatalf("expected a handle from the plugin")
	}
	if err := n.Cancel(ctx, handle); err != nil {
		t.Fatalf("cancel: %v", err)
	}
}

func buildNotifierPlugin(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "tempo-notifier")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/notifier")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build notifier plugin: %v\n%s", err, string(out))
	}
	return binPath
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
