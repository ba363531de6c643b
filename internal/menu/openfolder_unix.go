//go:build !windows && !darwin

package menu

import "os/exec"

func launchPath(path string) error {
	return exec.Command("xdg-open", path).Start()
}
