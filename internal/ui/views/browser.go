package views

import (
	"log/slog"
	"os/exec"
	"runtime"
)

// openInBrowser hands a URL to the system browser. Failure is logged, never
// surfaced; the ticket stays usable without a browser.
func openInBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		slog.Warn("failed to open browser", "url", url, "error", err)
	}
}
