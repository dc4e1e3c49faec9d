//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify posts to Notification Center through osascript. The icon option is
// ignored; display notification has no icon parameter.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	return exec.Command("osascript", "-e", script).Run()
}
