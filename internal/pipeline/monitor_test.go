package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMonitor_RunSingle(t *testing.T) {
	base := t.TempDir()
	fixture := filepath.Join(t.TempDir(), "finch.jpg")
	if err := os.WriteFile(fixture, []byte("fixture-jpeg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	cam := &fakeCamera{}
	p := New(cam, &fakeClassifier{detected: true}, nil, base, 50*time.Millisecond)
	m := NewMonitor(&scriptedSensor{}, p, 10*time.Millisecond)

	res, err := m.RunSingle(context.Background(), fixture)
	if err != nil {
		t.Fatalf("RunSingle: %v", err)
	}
	if !res.Detected {
		t.Fatal("expected positive decision")
	}
	assertNonEmptyFile(t, res.ImagePath)
	if cam.captures != 0 {
		t.Error("single-shot mode touched the camera for acquisition")
	}
}

func TestMonitor_SurvivesCaptureFailure(t *testing.T) {
	base := t.TempDir()

	// First trigger fails at capture; the loop must keep polling and the
	// second trigger must produce artifacts.
	cam := &fakeCamera{failCaptures: 1}
	sen := &scriptedSensor{triggers: []bool{true, false, true}}
	p := New(cam, &fakeClassifier{detected: true}, nil, base, 10*time.Millisecond)
	m := NewMonitor(sen, p, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := m.Run(ctx); err != context.DeadlineExceeded {
		t.Fatalf("Run returned %v, want context.DeadlineExceeded", err)
	}

	if cam.captures != 2 {
		t.Fatalf("capture attempts = %d, want 2 (one failed, one retried on next trigger)", cam.captures)
	}

	// Exactly one event succeeded end to end.
	dateDirs, err := os.ReadDir(base)
	if err != nil {
		t.Fatal(err)
	}
	if len(dateDirs) != 1 {
		t.Fatalf("date directories = %d, want 1", len(dateDirs))
	}
	entries, err := os.ReadDir(filepath.Join(base, dateDirs[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	var images, videos int
	for _, e := range entries {
		switch {
		case len(e.Name()) > 6 && e.Name()[:6] == "image_":
			images++
		case len(e.Name()) > 6 && e.Name()[:6] == "video_":
			videos++
		}
	}
	if images != 1 || videos != 1 {
		t.Errorf("artifacts = %d images, %d videos, want 1 and 1", images, videos)
	}
}

func TestMonitor_StopsOnContextCancel(t *testing.T) {
	p := New(&fakeCamera{}, &fakeClassifier{}, nil, t.TempDir(), 10*time.Millisecond)
	m := NewMonitor(&scriptedSensor{}, p, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestMonitor_DefaultPollInterval(t *testing.T) {
	m := NewMonitor(&scriptedSensor{}, nil, 0)
	if m.pollInterval != DefaultPollInterval {
		t.Errorf("poll interval = %v, want %v", m.pollInterval, DefaultPollInterval)
	}
}
