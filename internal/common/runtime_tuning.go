package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

const (
	smallServerGOGC     = 500
	smallServerMemLimit = int64(2.5 * 1024 * 1024 * 1024)

	largeServerGOGC     = 800
	largeServerMemLimit = int64(8 * 1024 * 1024 * 1024)
)

// InitRuntime applies GC and memory-limit settings sized to the host.
// Environment variables GOGC / GOMEMLIMIT / GOMAXPROCS always win.
func InitRuntime() {
	gogc := largeServerGOGC
	memLimit := largeServerMemLimit
	if runtime.NumCPU() <= 2 {
		gogc = smallServerGOGC
		memLimit = smallServerMemLimit
	}

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(gogc)
	}
	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(memLimit)
	}

	log.Info().
		Int("numCPU", runtime.NumCPU()).
		Int("gogc", gogc).
		Int64("memLimit", memLimit).
		Msg("runtime tuning applied")
}
