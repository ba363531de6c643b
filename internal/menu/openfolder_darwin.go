//go:build darwin

package menu

import "os/exec"

func launchPath(path string) error {
	return exec.Command("open", path).Start()
}
