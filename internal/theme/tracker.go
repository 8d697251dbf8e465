package theme

import (
	"sync"
	"time"

	"github.com/futig/consult-assistant/internal/entity"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	DefaultDebounce = 500 * time.Millisecond
	stateExpiration = 30 * time.Minute
)

// Tracker classifies the latest assistant message per conversation once it stops changing.
type Tracker struct {
	classifier *Classifier
	delay      time.Duration
	states     *cache.Cache
	logger     *zap.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewTracker(classifier *Classifier, delay time.Duration, logger *zap.Logger) *Tracker {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Tracker{
		classifier: classifier,
		delay:      delay,
		states:     cache.New(stateExpiration, 2*stateExpiration),
		logger:     logger,
		timers:     make(map[string]*time.Timer),
	}
}

// Observe restarts the debounce window for the conversation. Only the text from the
// last call inside the window is classified.
func (t *Tracker) Observe(conversationID, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.timers[conversationID]; ok {
		prev.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		if t.timers[conversationID] != timer {
			t.mu.Unlock()
			return
		}
		delete(t.timers, conversationID)
		t.mu.Unlock()

		state := t.classifier.Classify(text)
		t.states.Set(conversationID, state, cache.DefaultExpiration)
		t.logger.Debug("conversation theme updated",
			zap.String("conversation_id", conversationID),
			zap.String("theme", state.ActiveTheme),
			zap.Float64("confidence", state.Confidence),
		)
	})
	t.timers[conversationID] = timer
}

// Current returns the last classified state, idle for unknown conversations.
func (t *Tracker) Current(conversationID string) entity.ThemeState {
	if v, ok := t.states.Get(conversationID); ok {
		return v.(entity.ThemeState)
	}
	return entity.ThemeState{ActiveTheme: Idle}
}

// Stop cancels pending classifications.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}
