// Package storage defines where event records go after a positive
// decision. The production wiring ships a no-op sink; a real uploader
// (object storage + record datastore) swaps in behind the same
// interface without touching pipeline logic.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EventRecord describes the artifacts of one positive detection event.
type EventRecord struct {
	ID        uuid.UUID
	Timestamp time.Time
	ImagePath string
	ThumbPath string
	VideoPath string
}

// ArtifactSink receives the record of every positive detection event.
type ArtifactSink interface {
	Publish(ctx context.Context, rec EventRecord) error
}

// NopSink discards records. It is the default until the cloud
// integrations are enabled.
type NopSink struct{}

func (NopSink) Publish(ctx context.Context, rec EventRecord) error {
	logrus.WithFields(logrus.Fields{
		"id":    rec.ID,
		"image": rec.ImagePath,
	}).Debug("Artifact sink disabled, record dropped")
	return nil
}

// MemorySink keeps records in memory. Used in tests.
type MemorySink struct {
	mu      sync.Mutex
	records []EventRecord
}

func (s *MemorySink) Publish(ctx context.Context, rec EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemorySink) Records() []EventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EventRecord, len(s.records))
	copy(out, s.records)
	return out
}
