package notify

// Permission is the state of the notification capability. It mirrors the
// lifecycle of a user-granted permission: nothing is shown until the user
// explicitly grants it, and an unsupported platform can never grant it.
type Permission int

const (
	PermissionUnsupported Permission = iota
	PermissionNotRequested
	PermissionGranted
	PermissionDenied
)

// String returns the display name for a permission state
func (p Permission) String() string {
	switch p {
	case PermissionUnsupported:
		return "unsupported"
	case PermissionNotRequested:
		return "not requested"
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Capability is the injected notification surface. Display is
// fire-and-forget: callers get an error for diagnostics but no delivery
// confirmation.
type Capability interface {
	Permission() Permission
	Request() Permission
	Display(title, body string) error
}
