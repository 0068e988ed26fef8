package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"perchcam/internal/hw/camera"
)

// fakeCamera writes placeholder artifacts to real paths and can be
// scripted to fail captures or recordings.
type fakeCamera struct {
	failCaptures int // fail the first N capture attempts
	recordErr    error

	captures int
	records  int
}

func (c *fakeCamera) CaptureImage(outputDir, fileName string, _ time.Time) (string, error) {
	c.captures++
	if c.captures <= c.failCaptures {
		return "", &camera.CaptureError{Op: "capture image", Err: errors.New("no frame available")}
	}
	path := filepath.Join(outputDir, fileName)
	if err := os.WriteFile(path, []byte("jpeg-frame"), 0o644); err != nil {
		return "", &camera.CaptureError{Op: "write image", Err: err}
	}
	return path, nil
}

func (c *fakeCamera) RecordForDuration(outputDir, fileName string, _ time.Duration, _ time.Time) (string, error) {
	c.records++
	if c.recordErr != nil {
		return "", &camera.CaptureError{Op: "record video", Err: c.recordErr}
	}
	path := filepath.Join(outputDir, fileName)
	if err := os.WriteFile(path, []byte("mp4-clip"), 0o644); err != nil {
		return "", &camera.CaptureError{Op: "record video", Err: err}
	}
	return path, nil
}

func (c *fakeCamera) Close() error { return nil }

// fakeClassifier returns a fixed decision and writes the evidence file
// on positives, mirroring the real classifier's contract.
type fakeClassifier struct {
	detected bool
	err      error

	calls int
}

func (f *fakeClassifier) Classify(imagePath, thumbPath string) (bool, string, error) {
	f.calls++
	if f.err != nil {
		return false, "", f.err
	}
	if !f.detected {
		return false, "", nil
	}
	if err := os.WriteFile(thumbPath, []byte("thumb"), 0o644); err != nil {
		return false, "", err
	}
	return true, thumbPath, nil
}

// scriptedSensor serves a fixed trigger sequence, then stays quiet.
type scriptedSensor struct {
	triggers []bool
	next     int
}

func (s *scriptedSensor) CheckMotion() bool {
	if s.next >= len(s.triggers) {
		return false
	}
	v := s.triggers[s.next]
	s.next++
	return v
}

func (s *scriptedSensor) Close() error { return nil }
