package ui

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// openURL opens a URL in the default browser (cross-platform)
func openURL(url string) error {
	if url == "" {
		return fmt.Errorf("image has no display URL")
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux, freebsd, etc.
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// copyURL puts a URL on the system clipboard
func copyURL(url string) error {
	if url == "" {
		return fmt.Errorf("image has no display URL")
	}
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not available on this system")
	}
	return clipboard.WriteAll(url)
}
