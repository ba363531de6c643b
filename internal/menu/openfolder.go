package menu

import (
	"errors"
	"fmt"
	"os"
)

// openFolder creates path if needed and hands it to the platform file
// manager.
func openFolder(path string) error {
	if path == "" {
		return errors.New("no folder configured")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("ensure folder: %w", err)
	}
	return launchPath(path)
}
