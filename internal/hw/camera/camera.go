// Package camera provides the camera abstraction: a V4L2 webcam backend
// driven through ffmpeg, a Raspberry Pi camera module backend driven
// through the libcamera tools, and a frame-synthesizing backend for
// development hosts.
package camera

import (
	"fmt"
	"time"
)

// Camera is the high-level interface used by the event pipeline,
// regardless of how the device is controlled.
type Camera interface {
	// CaptureImage acquires exactly one still from the device, writes it
	// to outputDir/fileName and returns the path. On error the caller
	// must not assume the file exists.
	CaptureImage(outputDir, fileName string, eventTime time.Time) (string, error)

	// RecordForDuration records video to outputDir/fileName until the
	// requested wall-clock duration has elapsed or the device stops
	// yielding frames, whichever comes first. A short read truncates the
	// clip, it is not an error. Returns the path of the finalized file.
	RecordForDuration(outputDir, fileName string, duration time.Duration, eventTime time.Time) (string, error)

	// Close releases the device handle exactly once. Safe to call even
	// if the handle was never successfully opened.
	Close() error
}

// CaptureError reports that a single acquisition attempt failed (no
// frame available, device disconnected mid-read). It is event-scoped:
// the event is abandoned and the monitoring loop carries on.
type CaptureError struct {
	Op  string
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("camera: %s: %v", e.Op, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }
