//go:build windows

package menu

import (
	"bytes"
	"encoding/binary"
)

type icoHeader struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type icoDirEntry struct {
	Width       uint8
	Height      uint8
	Colors      uint8
	Reserved    uint8
	Planes      uint16
	BitCount    uint16
	BytesInRes  uint32
	ImageOffset uint32
}

// platformIcon wraps the PNG in a single-entry ICO container, the only
// format the Windows tray accepts.
func platformIcon(pngData []byte, size int) []byte {
	if isICO(pngData) {
		return pngData
	}
	icoData, err := wrapPNGAsICO(pngData, size, size)
	if err != nil {
		return nil
	}
	return icoData
}

func wrapPNGAsICO(pngData []byte, width, height int) ([]byte, error) {
	// Sizes of 256 and above are stored as 0.
	dim := func(v int) uint8 {
		if v <= 0 || v >= 256 {
			return 0
		}
		return uint8(v)
	}

	buf := &bytes.Buffer{}
	header := icoHeader{Type: 1, Count: 1}
	entry := icoDirEntry{
		Width:       dim(width),
		Height:      dim(height),
		Planes:      1,
		BitCount:    32,
		BytesInRes:  uint32(len(pngData)),
		ImageOffset: 6 + 16,
	}
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, entry); err != nil {
		return nil, err
	}
	buf.Write(pngData)
	return buf.Bytes(), nil
}

func isICO(data []byte) bool {
	return len(data) >= 4 && data[0] == 0x00 && data[1] == 0x00 && data[2] == 0x01 && data[3] == 0x00
}
