package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/milk9111/tilemap/tilemap"
	"github.com/sirupsen/logrus"
)

// Saver debounces map saves. Schedule only records the map; once the delay
// elapses without a new Schedule, Poll encodes it and writes it in the
// background. Writes are serialized and a blob older than the last one
// written is dropped.
type Saver struct {
	store    Store
	key      string
	delay    time.Duration
	compress bool
	log      logrus.FieldLogger
	now      func() time.Time

	mu    sync.Mutex
	dirty *tilemap.TileMap
	due   time.Time
	seq   uint64
	err   error
	saves int

	// writeMu is held across store.Save.
	writeMu sync.Mutex
	written uint64
	writes  sync.WaitGroup
}

func NewSaver(store Store, key string, delay time.Duration, compress bool, log logrus.FieldLogger) *Saver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Saver{store: store, key: key, delay: delay, compress: compress, log: log, now: time.Now}
}

// Schedule marks m as needing a save and restarts the delay.
func (s *Saver) Schedule(m *tilemap.TileMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = m
	s.due = s.now().Add(s.delay)
}

// Poll starts a background write of the scheduled map once its delay has
// elapsed and reports whether it did. The map is encoded before Poll returns,
// so Poll must be called from the goroutine that edits the map.
func (s *Saver) Poll(ctx context.Context) bool {
	blob, seq, err := s.take(false)
	if err != nil || blob == nil {
		return false
	}
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		_ = s.write(ctx, blob, seq)
	}()
	return true
}

// Flush encodes and writes the scheduled map now, then waits for background
// writes started by Poll.
func (s *Saver) Flush(ctx context.Context) error {
	blob, seq, err := s.take(true)
	if err == nil && blob != nil {
		err = s.write(ctx, blob, seq)
	}
	s.writes.Wait()
	return err
}

// take encodes the scheduled map when it is due, or at once when force is set.
// A nil blob means there was nothing to save.
func (s *Saver) take(force bool) ([]byte, uint64, error) {
	s.mu.Lock()
	m := s.dirty
	if m == nil || (!force && s.now().Before(s.due)) {
		s.mu.Unlock()
		return nil, 0, nil
	}
	s.dirty = nil
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	blob, err := encode(m, s.compress)
	if err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.log.WithError(err).Error("persistence: encode map")
		return nil, 0, err
	}
	return blob, seq, nil
}

func (s *Saver) write(ctx context.Context, blob []byte, seq uint64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if seq <= s.written {
		s.log.WithFields(logrus.Fields{"key": s.key, "seq": seq}).Debug("persistence: stale save skipped")
		return nil
	}

	err := s.store.Save(ctx, s.key, blob)
	s.mu.Lock()
	s.err = err
	if err == nil {
		s.saves++
	}
	s.mu.Unlock()
	if err != nil {
		s.log.WithError(err).WithField("key", s.key).Error("persistence: save map")
		return err
	}
	s.written = seq
	s.log.WithFields(logrus.Fields{"key": s.key, "bytes": len(blob)}).Debug("persistence: map saved")
	return nil
}

// Pending reports whether a scheduled map has not been written yet.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty != nil
}

// Err is the result of the most recent encode or write.
func (s *Saver) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Saves counts successful writes.
func (s *Saver) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
