//go:build !linux && !darwin && !windows

package platform

// Notify silently drops the notification on platforms with no backend.
// Notifications are advisory, so there is nothing to report.
func Notify(title, body string, opts Options) error {
	return nil
}
