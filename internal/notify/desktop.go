package notify

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/sandeepkv93/focusflow/internal/model"
)

type DesktopNotifier interface {
	Send(model.NotificationItem) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(model.NotificationItem) error { return nil }

// ExecDesktopNotifier shells out to notify-send on Linux and osascript on macOS.
type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n model.NotificationItem) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", title(n.Kind), n.Message).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Message), escapeAppleScript(title(n.Kind)))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}
