//go:build windows

package icons

import (
	"bytes"
	"encoding/binary"
)

// platformIcon wraps PNG bytes in a single-entry ICO container, which is
// what the Windows tray loads. ICO has carried PNG payloads since Vista.
func platformIcon(pngData []byte) []byte {
	buf := new(bytes.Buffer)
	// ICONDIR
	binary.Write(buf, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(buf, binary.LittleEndian, uint16(1)) // type: icon
	binary.Write(buf, binary.LittleEndian, uint16(1)) // one image

	// ICONDIRENTRY; 0 in width and height means "read it from the PNG".
	buf.Write([]byte{0, 0, 0, 0})
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(32))
	binary.Write(buf, binary.LittleEndian, uint32(len(pngData)))
	binary.Write(buf, binary.LittleEndian, uint32(6+16))

	buf.Write(pngData)
	return buf.Bytes()
}
