//go:build windows

package menu

import "os/exec"

func launchPath(path string) error {
	return exec.Command("explorer.exe", path).Start()
}
