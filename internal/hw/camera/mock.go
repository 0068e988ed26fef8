package camera

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// MockCamera synthesizes frames in software. Used for development on
// machines without a camera and for exercising the pipeline in tests.
type MockCamera struct {
	width  int
	height int
	fps    int
	frame  int
}

func NewMockCamera(width, height, fps int) *MockCamera {
	logrus.Info("Using MOCK camera (development mode)")
	return &MockCamera{width: width, height: height, fps: fps}
}

// synthFrame renders a flat frame whose shade varies per frame so
// consecutive captures are distinguishable.
func (m *MockCamera) synthFrame() *image.NRGBA {
	m.frame++
	shade := uint8(40 + (m.frame*13)%160)
	return imaging.New(m.width, m.height, color.NRGBA{R: shade, G: shade, B: 90, A: 255})
}

func (m *MockCamera) CaptureImage(outputDir, fileName string, eventTime time.Time) (string, error) {
	imagePath := filepath.Join(outputDir, fileName)
	if err := imaging.Save(m.synthFrame(), imagePath, imaging.JPEGQuality(85)); err != nil {
		return "", &CaptureError{Op: "write image", Err: err}
	}
	return imagePath, nil
}

// RecordForDuration writes one synthesized frame per frame interval
// until the deadline. The sink is a concatenated-JPEG stream, which is
// all a development host needs.
func (m *MockCamera) RecordForDuration(outputDir, fileName string, duration time.Duration, eventTime time.Time) (string, error) {
	videoPath := filepath.Join(outputDir, fileName)
	sink, err := os.Create(videoPath)
	if err != nil {
		return "", &CaptureError{Op: "open video sink", Err: err}
	}
	defer sink.Close()

	frameInterval := time.Second / time.Duration(m.fps)
	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		if err := jpeg.Encode(sink, m.synthFrame(), &jpeg.Options{Quality: 60}); err != nil {
			return "", &CaptureError{Op: "append video frame", Err: err}
		}
		time.Sleep(frameInterval)
	}
	return videoPath, nil
}

func (m *MockCamera) Close() error { return nil }
