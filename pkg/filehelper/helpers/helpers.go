package helpers

import "runtime"

const (
	// MinBufferSize is the smallest buffer handed to bufio
	MinBufferSize = 512
	// MaxBufferSize caps buffers for very large files
	MaxBufferSize = 1 * 1024 * 1024
)

// GetOptimalBufferSize returns a bufio buffer size for a file of the given size.
// A positive preferred size wins over the computed one.
func GetOptimalBufferSize(fileSize int64, preferred int) int {
	if preferred > 0 {
		return clamp(preferred)
	}

	// Base buffer size (4KB)
	baseSize := 4 * 1024

	// Small files fit in one buffer
	if fileSize < int64(baseSize) {
		return clamp(int(fileSize))
	}

	// Scale buffer size based on available CPU cores
	return clamp(baseSize * runtime.GOMAXPROCS(0))
}

func clamp(size int) int {
	if size < MinBufferSize {
		return MinBufferSize
	}
	if size > MaxBufferSize {
		return MaxBufferSize
	}
	return size
}
