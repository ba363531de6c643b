//go:build !windows

package menu

func platformIcon(pngData []byte, _ int) []byte {
	return pngData
}
