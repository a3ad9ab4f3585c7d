package sources

import (
	"errors"
	"sync"

	"github.com/bwise1/whereintheworld/internal/model"
)

var ErrNotStarted = errors.New("coordinate source is stopped")

// PushedCoordinateSource receives fixes pushed by the local control API.
// Only the latest unread fix is kept.
type PushedCoordinateSource struct {
	mu      sync.Mutex
	started bool
	ch      chan model.Coordinate
}

func NewPushedCoordinateSource() *PushedCoordinateSource {
	return &PushedCoordinateSource{ch: make(chan model.Coordinate, 1)}
}

func (s *PushedCoordinateSource) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
}

// Stop drops any unread fix.
func (s *PushedCoordinateSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	select {
	case <-s.ch:
	default:
	}
}

func (s *PushedCoordinateSource) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *PushedCoordinateSource) Coordinates() <-chan model.Coordinate {
	return s.ch
}

// Push replaces any unread fix with coord.
func (s *PushedCoordinateSource) Push(coord model.Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- coord
	return nil
}
