//go:build windows

package desktop

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	coinitApartmentThreaded = 0x2
	clsctxAll               = 0x17

	sOK    = 0x0
	sFalse = 0x1
)

var (
	modole32             = windows.NewLazySystemDLL("ole32.dll")
	procCoInitializeEx   = modole32.NewProc("CoInitializeEx")
	procCoUninitialize   = modole32.NewProc("CoUninitialize")
	procCoCreateInstance = modole32.NewProc("CoCreateInstance")

	clsidVirtualDesktopManager = windows.GUID{
		Data1: 0xAA509086, Data2: 0x5CA9, Data3: 0x4C25,
		Data4: [8]byte{0x8F, 0x95, 0x58, 0x9D, 0x3C, 0x07, 0xB4, 0x8A},
	}
	iidVirtualDesktopManager = windows.GUID{
		Data1: 0xA5CD92FF, Data2: 0x29BE, Data3: 0x454C,
		Data4: [8]byte{0x8D, 0x04, 0xD8, 0x28, 0x79, 0xFB, 0x3F, 0x1B},
	}
)

// virtualDesktopManager mirrors the IVirtualDesktopManager vtable layout.
type virtualDesktopManager struct {
	vtbl *struct {
		QueryInterface                  uintptr
		AddRef                          uintptr
		Release                         uintptr
		IsWindowOnCurrentVirtualDesktop uintptr
		GetWindowDesktopId              uintptr
		MoveWindowToDesktop             uintptr
	}
}

type hresultError struct {
	op string
	hr uintptr
}

func (e *hresultError) Error() string {
	return fmt.Sprintf("%s: HRESULT 0x%08X", e.op, uint32(e.hr))
}

func failed(hr uintptr) bool {
	return int32(uint32(hr)) < 0
}

type comResolver struct{}

// NewResolver returns a resolver backed by the shell's IVirtualDesktopManager.
func NewResolver() Resolver {
	return comResolver{}
}

// Resolve initialises COM on the calling thread for the duration of the
// lookup, so it is safe from any goroutine.
func (comResolver) Resolve(hwnd uint64) (string, error) {
	if hwnd == 0 {
		return "", errors.New("window handle is null")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hr, _, _ := procCoInitializeEx.Call(0, coinitApartmentThreaded)
	switch hr {
	case sOK, sFalse:
		defer procCoUninitialize.Call()
	default:
		if failed(hr) {
			return "", &hresultError{op: "CoInitializeEx", hr: hr}
		}
	}

	var mgr *virtualDesktopManager
	hr, _, _ = procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&clsidVirtualDesktopManager)),
		0,
		clsctxAll,
		uintptr(unsafe.Pointer(&iidVirtualDesktopManager)),
		uintptr(unsafe.Pointer(&mgr)),
	)
	if failed(hr) || mgr == nil {
		return "", &hresultError{op: "CoCreateInstance(VirtualDesktopManager)", hr: hr}
	}
	defer syscall.SyscallN(mgr.vtbl.Release, uintptr(unsafe.Pointer(mgr)))

	var id windows.GUID
	hr, _, _ = syscall.SyscallN(
		mgr.vtbl.GetWindowDesktopId,
		uintptr(unsafe.Pointer(mgr)),
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&id)),
	)
	if failed(hr) {
		return "", &hresultError{op: "GetWindowDesktopId", hr: hr}
	}
	if id == (windows.GUID{}) {
		return "", errors.New("window has no owning desktop")
	}

	return strings.Trim(id.String(), "{}"), nil
}
