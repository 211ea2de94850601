package player

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"time"
)

// ProbeBinary measures media durations.
const ProbeBinary = "ffprobe"

// Probe returns a function reading the duration of a media file with
// ffprobe, or nil when ffprobe is not installed.
func Probe(ctx context.Context) func(path string) (time.Duration, error) {
	bin, err := exec.LookPath(ProbeBinary)
	if err != nil {
		return nil
	}

	return func(path string) (time.Duration, error) {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		out, err := exec.CommandContext(ctx, bin,
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			"-i", path,
		).Output()
		if err != nil {
			return 0, &DeviceError{Op: "probe", Path: path, Err: err}
		}

		seconds, err := strconv.ParseFloat(string(bytes.TrimSpace(out)), 64)
		if err != nil {
			return 0, &DeviceError{Op: "probe", Path: path, Err: err}
		}
		return time.Duration(seconds * float64(time.Second)), nil
	}
}
