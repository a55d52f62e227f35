package botkit

import (
	"log/slog"
	"sync"
	"time"
)

// StepHandler is a pending conversation step. It receives a context built
// around the message that continued the conversation; re-arming from inside
// the step keeps the dialog going.
type StepHandler func(ctx *Context) error

type pendingStep struct {
	step    StepHandler
	owner   string
	origin  int
	armedAt time.Time
}

// Conversations tracks at most one pending step per chat. Arming twice
// replaces the previous step; consuming removes it before the handler runs,
// so a step that wants another turn must re-arm explicitly. Entries expire
// after the configured TTL so abandoned dialogs do not accumulate.
type Conversations struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[int64]*pendingStep
	now     func() time.Time
}

// NewConversations creates a store. ttl <= 0 disables expiry.
func NewConversations(ttl time.Duration) *Conversations {
	return &Conversations{
		ttl:     ttl,
		pending: make(map[int64]*pendingStep),
		now:     time.Now,
	}
}

// Arm registers step as the next-message handler for chatID, replacing any
// step already armed there. owner is the arming plugin's name, origin the id
// of the message that started the exchange; both are for logs only.
func (c *Conversations) Arm(chatID int64, owner string, origin int, step StepHandler) {
	if step == nil {
		return
	}
	c.mu.Lock()
	prev := c.pending[chatID]
	c.pending[chatID] = &pendingStep{step: step, owner: owner, origin: origin, armedAt: c.now()}
	c.mu.Unlock()

	if prev != nil {
		slog.Debug("Conversation step replaced", "chat", chatID, "prev", prev.owner, "plugin", owner)
	}
}

// Consume removes and returns the step armed for chatID. An expired entry is
// dropped on touch and reported as a miss.
func (c *Conversations) Consume(chatID int64) (StepHandler, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[chatID]
	if !ok {
		return nil, "", false
	}
	delete(c.pending, chatID)
	if c.expired(p) {
		slog.Debug("Conversation step expired", "chat", chatID, "plugin", p.owner, "origin", p.origin)
		return nil, "", false
	}
	return p.step, p.owner, true
}

// Cancel drops any armed step for chatID.
func (c *Conversations) Cancel(chatID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[chatID]
	delete(c.pending, chatID)
	return ok
}

// Sweep drops every expired entry and returns how many were removed. The
// runtime loop calls it on a ticker.
func (c *Conversations) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for chatID, p := range c.pending {
		if c.expired(p) {
			delete(c.pending, chatID)
			removed++
		}
	}
	return removed
}

// Len reports the number of armed chats.
func (c *Conversations) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Conversations) expired(p *pendingStep) bool {
	return c.ttl > 0 && c.now().Sub(p.armedAt) > c.ttl
}
