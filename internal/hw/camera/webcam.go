package camera

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"perchcam/internal/hw"
)

const (
	// frameWait bounds how long a still capture waits for the next frame
	// before the attempt is declared failed.
	frameWait = 3 * time.Second
)

// Webcam drives a V4L2 device through a persistent ffmpeg process that
// emits MJPEG frames over a pipe. The device is opened once at
// construction and held for the process lifetime; a background drain
// keeps only the most recent frame so stills are always fresh.
type Webcam struct {
	cmd    *exec.Cmd
	frames chan []byte
	fps    int
	closed bool
}

// NewWebcam opens the device at the requested geometry and frame rate.
// The requested 1920x1080 is a wish: if the device does not support it,
// ffmpeg negotiates whatever the device offers and that is accepted.
// Returns an initialization error when ffmpeg or the device is not
// available; that is fatal at startup.
func NewWebcam(device string, width, height, fps int, warmup time.Duration) (*Webcam, error) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, &hw.InitError{Component: "webcam", Err: fmt.Errorf("ffmpeg not found: %w", err)}
	}
	if _, err := os.Stat(device); err != nil {
		return nil, &hw.InitError{Component: "webcam", Err: fmt.Errorf("video device %s: %w", device, err)}
	}

	cmd := exec.Command(ffmpeg,
		"-hide_banner", "-loglevel", "error",
		"-f", "v4l2",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", strconv.Itoa(fps),
		"-i", device,
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "2",
		"-",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &hw.InitError{Component: "webcam", Err: err}
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, &hw.InitError{Component: "webcam", Err: fmt.Errorf("start ffmpeg: %w", err)}
	}

	w := &Webcam{
		cmd:    cmd,
		frames: make(chan []byte, 1),
		fps:    fps,
	}
	go w.drain(stdout)

	logrus.WithFields(logrus.Fields{
		"device": device,
		"size":   fmt.Sprintf("%dx%d", width, height),
		"fps":    fps,
	}).Info("Webcam opened")

	// Let exposure settle before the first capture.
	time.Sleep(warmup)

	return w, nil
}

// drain continuously reads MJPEG frames off the ffmpeg pipe, keeping
// only the latest one. The channel is closed when the device stops
// yielding frames, which downstream readers treat as a short read.
func (w *Webcam) drain(r io.Reader) {
	defer close(w.frames)
	br := bufio.NewReaderSize(r, 1<<20)
	for {
		frame, err := readJPEGFrame(br)
		if err != nil {
			if err != io.EOF {
				logrus.WithError(err).Warn("Webcam stream ended")
			}
			return
		}
		// Drop the stale frame if nobody consumed it.
		select {
		case w.frames <- frame:
		default:
			select {
			case <-w.frames:
			default:
			}
			w.frames <- frame
		}
	}
}

// nextFrame waits up to timeout for a fresh frame.
func (w *Webcam) nextFrame(timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case frame, ok := <-w.frames:
		if !ok {
			return nil, fmt.Errorf("device stopped yielding frames")
		}
		return frame, nil
	case <-timer.C:
		return nil, fmt.Errorf("no frame within %v", timeout)
	}
}

func (w *Webcam) CaptureImage(outputDir, fileName string, eventTime time.Time) (string, error) {
	frame, err := w.nextFrame(frameWait)
	if err != nil {
		return "", &CaptureError{Op: "capture image", Err: err}
	}

	imagePath := filepath.Join(outputDir, fileName)
	if err := os.WriteFile(imagePath, frame, 0o644); err != nil {
		return "", &CaptureError{Op: "write image", Err: err}
	}
	return imagePath, nil
}

func (w *Webcam) RecordForDuration(outputDir, fileName string, duration time.Duration, eventTime time.Time) (string, error) {
	videoPath := filepath.Join(outputDir, fileName)

	// A second ffmpeg muxes the pulled frames into the mp4 sink at the
	// fixed configured frame rate.
	mux := exec.Command("ffmpeg",
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "image2pipe",
		"-framerate", strconv.Itoa(w.fps),
		"-i", "-",
		"-c:v", "copy",
		videoPath,
	)
	stdin, err := mux.StdinPipe()
	if err != nil {
		return "", &CaptureError{Op: "open video sink", Err: err}
	}
	mux.Stderr = os.Stderr
	if err := mux.Start(); err != nil {
		return "", &CaptureError{Op: "open video sink", Err: err}
	}

	deadline := time.Now().Add(duration)
	frameInterval := time.Second / time.Duration(w.fps)
	for time.Now().Before(deadline) {
		frame, err := w.nextFrame(frameInterval + frameWait)
		if err != nil {
			// Short read: the clip is truncated, not failed.
			logrus.WithError(err).Warn("Recording truncated early")
			break
		}
		if _, err := stdin.Write(frame); err != nil {
			_ = stdin.Close()
			_ = mux.Wait()
			return "", &CaptureError{Op: "append video frame", Err: err}
		}
	}

	if err := stdin.Close(); err != nil {
		return "", &CaptureError{Op: "finalize video", Err: err}
	}
	if err := mux.Wait(); err != nil {
		return "", &CaptureError{Op: "finalize video", Err: err}
	}
	return videoPath, nil
}

func (w *Webcam) Close() error {
	if w.closed || w.cmd == nil {
		return nil
	}
	w.closed = true
	if err := w.cmd.Process.Kill(); err != nil {
		return err
	}
	_ = w.cmd.Wait()
	logrus.Info("Webcam released")
	return nil
}
