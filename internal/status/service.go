package status

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwise1/whereintheworld/internal/model"
)

// API is the remote status endpoint pair.
type API interface {
	GetStatus(ctx context.Context) (model.RemoteStatus, error)
	SetStatus(ctx context.Context, status model.RemoteStatus) error
}

// PresetLookup resolves a manual preset by id.
type PresetLookup interface {
	GetManualPreset(ctx context.Context, id int) (model.ManualStatusPreset, error)
}

// Outcome reports what a SetStatus call did.
type Outcome int

const (
	Written Outcome = iota
	SkippedPermanent
	SkippedManual
	FetchFailed
	WriteFailed
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case SkippedPermanent:
		return "skipped_permanent"
	case SkippedManual:
		return "skipped_manual"
	case FetchFailed:
		return "fetch_failed"
	case WriteFailed:
		return "write_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

type armedPreset struct {
	text  string
	until time.Time
}

// Service pushes location-derived statuses without clobbering manual ones.
type Service struct {
	api     API
	presets PresetLookup
	now     func() time.Time

	mu        sync.Mutex
	permanent map[string]struct{}
	armed     *armedPreset
}

func NewService(api API, presets PresetLookup, permanentEmojis []string) *Service {
	s := &Service{
		api:     api,
		presets: presets,
		now:     time.Now,
	}
	s.SetPermanentEmojis(permanentEmojis)
	return s
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SetPermanentEmojis replaces the set of emojis that block automatic updates.
func (s *Service) SetPermanentEmojis(emojis []string) {
	set := make(map[string]struct{}, len(emojis))
	for _, e := range emojis {
		if key := emojiKey(e); key != "" {
			set[key] = struct{}{}
		}
	}
	s.mu.Lock()
	s.permanent = set
	s.mu.Unlock()
}

// emojiKey strips surrounding colons so ":palm_tree:" and "palm_tree" compare equal.
func emojiKey(emoji string) string {
	return strings.Trim(strings.TrimSpace(emoji), ":")
}

func (s *Service) isPermanent(emoji string) bool {
	key := emojiKey(emoji)
	if key == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.permanent[key]
	return ok
}

// manualActive reports whether an armed preset still owns the remote status.
// Expired presets are disarmed.
func (s *Service) manualActive(current model.RemoteStatus, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed == nil {
		return false
	}
	if !s.armed.until.IsZero() && !now.Before(s.armed.until) {
		s.armed = nil
		return false
	}
	return current.Text == s.armed.text
}

// SetStatus fetches the current status and overwrites it unless a permanent
// or armed manual status is in place. Failures are logged, never returned.
func (s *Service) SetStatus(ctx context.Context, text, emoji string, expirationSeconds int) Outcome {
	current, err := s.api.GetStatus(ctx)
	if err != nil {
		log.Printf("[Slack] error getting status: %v", err)
		return FetchFailed
	}

	if s.isPermanent(current.Emoji) {
		log.Printf("[Slack] status %q is permanent, not updating", current.Emoji)
		return SkippedPermanent
	}

	now := s.now()
	if s.manualActive(current, now) {
		log.Printf("[Slack] manual status %q is active, not updating", current.Text)
		return SkippedManual
	}

	next := model.RemoteStatus{
		Text:            text,
		Emoji:           emoji,
		ExpirationEpoch: model.ExpirationEpoch(now, expirationSeconds),
	}
	if err := s.api.SetStatus(ctx, next); err != nil {
		log.Printf("[Slack] error updating status: %v", err)
		return WriteFailed
	}
	log.Printf("[Slack] updated status to %s", text)
	return Written
}

// RequestManual writes the preset unconditionally and arms it.
func (s *Service) RequestManual(ctx context.Context, preset model.ManualStatusPreset) error {
	now := s.now()
	next := model.RemoteStatus{
		Text:            preset.StatusText,
		Emoji:           preset.Emoji,
		ExpirationEpoch: model.ExpirationEpoch(now, preset.ExpirationSeconds),
	}
	if err := s.api.SetStatus(ctx, next); err != nil {
		return fmt.Errorf("set manual status %q: %w", preset.Title, err)
	}

	armed := &armedPreset{text: preset.StatusText}
	if preset.ExpirationSeconds > 0 {
		armed.until = now.Add(time.Duration(preset.ExpirationSeconds) * time.Second)
	}
	s.mu.Lock()
	s.armed = armed
	s.mu.Unlock()

	log.Printf("[Slack] manual status set to %s (%s)", preset.Title, preset.ExpirationLabel())
	return nil
}

// RequestManualStatus looks up the preset and applies it.
func (s *Service) RequestManualStatus(ctx context.Context, presetID int) (model.ManualStatusPreset, error) {
	preset, err := s.presets.GetManualPreset(ctx, presetID)
	if err != nil {
		return model.ManualStatusPreset{}, err
	}
	return preset, s.RequestManual(ctx, preset)
}

// Disarm clears the armed manual preset.
func (s *Service) Disarm() {
	s.mu.Lock()
	s.armed = nil
	s.mu.Unlock()
}
