// Package pipeline orchestrates one motion event from trigger to
// artifacts: capture an image, classify it, and record a clip on a
// positive decision. It also hosts the monitoring loop driving the
// pipeline off the motion sensor.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"perchcam/internal/classify"
	"perchcam/internal/hw/camera"
	"perchcam/internal/storage"
)

// DefaultClipDuration is the length of the video recorded after a
// positive decision.
const DefaultClipDuration = 3 * time.Second

// Result reports what one event produced. Paths are empty for
// artifacts that were not written.
type Result struct {
	Detected  bool
	ImagePath string
	ThumbPath string
	VideoPath string
}

// Pipeline owns the camera, the classifier and the artifact sink, and
// drives the capture → classify → record sequence for one event at a
// time. It holds no state across events beyond the open device handles.
type Pipeline struct {
	camera       camera.Camera
	classifier   classify.Classifier
	sink         storage.ArtifactSink
	baseDir      string
	clipDuration time.Duration
}

func New(cam camera.Camera, cls classify.Classifier, sink storage.ArtifactSink, baseDir string, clipDuration time.Duration) *Pipeline {
	if clipDuration <= 0 {
		clipDuration = DefaultClipDuration
	}
	if sink == nil {
		sink = storage.NopSink{}
	}
	return &Pipeline{
		camera:       cam,
		classifier:   cls,
		sink:         sink,
		baseDir:      baseDir,
		clipDuration: clipDuration,
	}
}

// ProcessEvent runs one full pipeline cycle for a motion event at
// eventTime. When testImage is non-empty it is copied into the event
// directory instead of capturing from the camera; the source fixture is
// never mutated.
//
// Expected failures (capture, classification, recording) are logged and
// end the event without an error so the monitoring loop survives them.
// Only environmental failures (the event directory being uncreatable)
// escalate.
func (p *Pipeline) ProcessEvent(ctx context.Context, eventTime time.Time, testImage string) (*Result, error) {
	logrus.WithField("time", eventTime.Format(time.RFC3339)).Info("Motion detected")

	dateDir := filepath.Join(p.baseDir, eventDate(eventTime))
	if err := os.MkdirAll(dateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create event directory %s: %w", dateDir, err)
	}

	ts := eventTimestamp(eventTime)
	imageName := "image_" + ts + ".jpg"
	thumbPath := filepath.Join(dateDir, "thumb_"+ts+".jpg")
	videoName := "video_" + ts + ".mp4"

	result := &Result{}

	// Acquisition: test image copy or camera capture.
	if testImage != "" {
		imagePath := filepath.Join(dateDir, imageName)
		if err := copyFile(testImage, imagePath); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"source": testImage,
				"dest":   imagePath,
			}).Error("Copying test image failed, abandoning event")
			return result, nil
		}
		logrus.WithField("path", imagePath).Info("Using test image")
		result.ImagePath = imagePath
	} else {
		imagePath, err := p.camera.CaptureImage(dateDir, imageName, eventTime)
		if err != nil {
			logrus.WithError(err).Error("Capturing image failed, abandoning event")
			return result, nil
		}
		logrus.WithField("path", imagePath).Info("Captured image")
		result.ImagePath = imagePath
	}

	// Classification.
	detected, evidence, err := p.classifier.Classify(result.ImagePath, thumbPath)
	if err != nil {
		logrus.WithError(err).WithField("image", result.ImagePath).
			Error("Classification failed, abandoning event")
		return result, nil
	}
	result.Detected = detected
	result.ThumbPath = evidence

	if !detected {
		logrus.Info("No bird in frame")
		return result, nil
	}

	// Decision gate: record a clip. A recording failure never rolls back
	// the image and evidence artifacts already on disk.
	logrus.Info("Bird detected! Recording video...")
	videoPath, err := p.camera.RecordForDuration(dateDir, videoName, p.clipDuration, eventTime)
	if err != nil {
		logrus.WithError(err).Warn("Video recording failed, keeping image and thumbnail")
	} else {
		logrus.WithField("path", videoPath).Info("Recorded video")
		result.VideoPath = videoPath
	}

	rec := storage.EventRecord{
		ID:        uuid.New(),
		Timestamp: eventTime,
		ImagePath: result.ImagePath,
		ThumbPath: result.ThumbPath,
		VideoPath: result.VideoPath,
	}
	if err := p.sink.Publish(ctx, rec); err != nil {
		logrus.WithError(err).WithField("id", rec.ID).Warn("Publishing event record failed")
	}

	return result, nil
}

// copyFile copies src to dst without touching src.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
