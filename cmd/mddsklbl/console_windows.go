//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"

	"github.com/example/mddsklbl/internal/config"
)

func init() {
	settings, err := config.LoadSettings()
	keep := err == nil && settings.ShowConsole
	if shouldShowConsole(keep, os.Args[1:]) {
		return
	}
	hideConsoleWindow()
}

func hideConsoleWindow() {
	kernel32 := windows.NewLazySystemDLL("kernel32.dll")
	user32 := windows.NewLazySystemDLL("user32.dll")

	getConsoleWindow := kernel32.NewProc("GetConsoleWindow")
	showWindow := user32.NewProc("ShowWindow")
	freeConsole := kernel32.NewProc("FreeConsole")

	hwnd, _, _ := getConsoleWindow.Call()
	if hwnd == 0 {
		return
	}

	const swHide = 0
	showWindow.Call(hwnd, swHide)
	freeConsole.Call()
}
