package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Desktop sends desktop notifications through notify-send. On systems
// without notify-send the capability reports itself unsupported and every
// Display is a no-op.
type Desktop struct {
	permission Permission
}

// NewDesktop creates the desktop notification capability.
func NewDesktop() *Desktop {
	d := &Desktop{permission: PermissionNotRequested}
	if _, err := exec.LookPath("notify-send"); err != nil {
		d.permission = PermissionUnsupported
	}
	return d
}

// Permission implements Capability.
func (d *Desktop) Permission() Permission {
	return d.permission
}

// Request implements Capability. notify-send has no prompt of its own, so
// an explicit request from the user grants immediately.
func (d *Desktop) Request() Permission {
	if d.permission == PermissionNotRequested || d.permission == PermissionDenied {
		d.permission = PermissionGranted
	}
	return d.permission
}

// Deny disables notifications until the user requests them again.
func (d *Desktop) Deny() {
	if d.permission != PermissionUnsupported {
		d.permission = PermissionDenied
	}
}

// Display implements Capability.
func (d *Desktop) Display(title, body string) error {
	if d.permission != PermissionGranted {
		return nil
	}
	return d.send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
}

// send sends a desktop notification using notify-send
func (d *Desktop) send(notification Notification) error {
	args := []string{}

	// Add urgency
	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Add timeout (in milliseconds)
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	// Add icon if specified
	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	// Add app name
	args = append(args, "-a", "zenith")

	// Add title and body
	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	cmd := exec.Command("notify-send", args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify-send: %w", err)
	}
	return nil
}
