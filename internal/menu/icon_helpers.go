package menu

import "sync"

var (
	trayIconOnce sync.Once
	trayIconData []byte
)

// defaultIcon returns the rendered tray icon in the platform's preferred
// container. The result is computed once and copied on every call.
func defaultIcon() []byte {
	trayIconOnce.Do(func() {
		data, err := IconPNG(TrayIconSize)
		if err != nil {
			return
		}
		trayIconData = platformIcon(data, TrayIconSize)
	})
	return cloneIcon(trayIconData)
}

func cloneIcon(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp
}
