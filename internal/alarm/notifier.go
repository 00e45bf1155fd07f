package alarm

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notifier raises platform notifications.
type Notifier interface {
	Permission() Permission
	// RequestPermission asks the platform once and reports the decision.
	RequestPermission(ctx context.Context) Permission
	Show(ctx context.Context, title, body string) error
}

// DesktopNotifier shells out to notify-send on Linux and osascript on macOS.
// Permission is granted iff the tool is installed.
type DesktopNotifier struct {
	goos     string
	lookPath func(string) (string, error)
	perm     Permission
	tool     string
}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{goos: runtime.GOOS, lookPath: exec.LookPath, perm: PermissionDefault}
}

func (d *DesktopNotifier) Permission() Permission { return d.perm }

func (d *DesktopNotifier) RequestPermission(context.Context) Permission {
	var tool string
	switch d.goos {
	case "linux":
		tool = "notify-send"
	case "darwin":
		tool = "osascript"
	}
	if tool == "" {
		d.perm = PermissionDenied
		return d.perm
	}
	if _, err := d.lookPath(tool); err != nil {
		d.perm = PermissionDenied
		return d.perm
	}
	d.tool = tool
	d.perm = PermissionGranted
	return d.perm
}

func (d *DesktopNotifier) Show(ctx context.Context, title, body string) error {
	if d.perm != PermissionGranted {
		return nil
	}
	var cmd *exec.Cmd
	switch d.tool {
	case "notify-send":
		cmd = exec.CommandContext(ctx, "notify-send", "--app-name=horae", title, body)
	case "osascript":
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(body), strconv.Quote(title))
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	default:
		return nil
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", d.tool, err)
	}
	return nil
}

// NopNotifier grants permission and drops every notification.
type NopNotifier struct{}

func (NopNotifier) Permission() Permission                       { return PermissionGranted }
func (NopNotifier) RequestPermission(context.Context) Permission { return PermissionGranted }
func (NopNotifier) Show(context.Context, string, string) error   { return nil }
