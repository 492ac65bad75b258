//go:build !linux

package tilegemm

// systemMemory returns total system memory in bytes. Without an OS
// query we fall back to a fixed figure; it only feeds device info.
func systemMemory() uint64 {
	return defaultSystemMemory
}
