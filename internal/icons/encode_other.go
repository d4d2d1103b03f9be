//go:build !windows

package icons

func platformIcon(pngData []byte) []byte {
	return pngData
}
