package camera

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"perchcam/internal/hw"
)

// PiCamera drives the Raspberry Pi camera module through the libcamera
// command-line tools. Start/stop timing of recordings is delegated to
// the hardware's own primitive (libcamera-vid -t), so RecordForDuration
// simply blocks for the requested duration.
type PiCamera struct {
	stillBin string
	videoBin string
	width    int
	height   int
}

// NewPiCamera probes for the libcamera tools. Their absence means the
// camera stack is not installed, which is fatal at startup.
func NewPiCamera(width, height int) (*PiCamera, error) {
	stillBin, err := exec.LookPath("libcamera-still")
	if err != nil {
		return nil, &hw.InitError{Component: "picam", Err: fmt.Errorf("libcamera-still not found: %w", err)}
	}
	videoBin, err := exec.LookPath("libcamera-vid")
	if err != nil {
		return nil, &hw.InitError{Component: "picam", Err: fmt.Errorf("libcamera-vid not found: %w", err)}
	}

	logrus.WithField("size", fmt.Sprintf("%dx%d", width, height)).Info("Pi camera module ready")

	return &PiCamera{
		stillBin: stillBin,
		videoBin: videoBin,
		width:    width,
		height:   height,
	}, nil
}

func (p *PiCamera) CaptureImage(outputDir, fileName string, eventTime time.Time) (string, error) {
	imagePath := filepath.Join(outputDir, fileName)
	cmd := exec.Command(p.stillBin,
		"--nopreview",
		"--width", strconv.Itoa(p.width),
		"--height", strconv.Itoa(p.height),
		"-o", imagePath,
	)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", &CaptureError{Op: "capture image", Err: err}
	}
	if _, err := os.Stat(imagePath); err != nil {
		return "", &CaptureError{Op: "capture image", Err: err}
	}
	return imagePath, nil
}

func (p *PiCamera) RecordForDuration(outputDir, fileName string, duration time.Duration, eventTime time.Time) (string, error) {
	videoPath := filepath.Join(outputDir, fileName)
	cmd := exec.Command(p.videoBin,
		"--nopreview",
		"-t", strconv.FormatInt(duration.Milliseconds(), 10),
		"--width", strconv.Itoa(p.width),
		"--height", strconv.Itoa(p.height),
		"-o", videoPath,
	)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", &CaptureError{Op: "record video", Err: err}
	}
	return videoPath, nil
}

// Close holds no persistent handle: each libcamera invocation opens and
// releases the device itself.
func (p *PiCamera) Close() error { return nil }
