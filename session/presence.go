package session

import (
	"context"
	"sync"

	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/utils/log"
)

// PresenceState is the connectivity state of the viewer.
type PresenceState string

const (
	PresenceOnline  PresenceState = "online"
	PresenceOffline PresenceState = "offline"
)

// Presence reflects the viewer's connectivity into their own user record.
// State machine: Online -> (tab hidden or app unload) -> Offline, and
// Offline -> (tab visible) -> Online. Sign-in forces Online, sign-out forces
// Offline. Every transition writes isOnline and lastSeen for the viewer's
// record only; the tracker never touches another user's presence.
//
// Writes are best effort: a failure is logged and not retried, the next
// transition attempts again.
type Presence struct {
	docs   store.DocumentStore
	userId string

	mu    sync.Mutex
	state PresenceState
}

func NewPresence(docs store.DocumentStore, userId string) *Presence {
	return &Presence{
		docs:   docs,
		userId: userId,
		state:  PresenceOffline,
	}
}

// State returns the current tracked state.
func (p *Presence) State() PresenceState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// HandleVisibility applies a page visibility event. Only actual transitions
// issue a write.
func (p *Presence) HandleVisibility(ctx context.Context, visible bool) {
	target := PresenceOffline
	if visible {
		target = PresenceOnline
	}

	p.mu.Lock()
	if p.state == target {
		p.mu.Unlock()
		return
	}
	p.state = target
	p.mu.Unlock()

	p.write(ctx, target)
}

// ForceOnline marks the viewer online unconditionally, used on sign-in.
func (p *Presence) ForceOnline(ctx context.Context) {
	p.mu.Lock()
	p.state = PresenceOnline
	p.mu.Unlock()
	p.write(ctx, PresenceOnline)
}

// ForceOffline marks the viewer offline unconditionally, used on sign-out
// and app unload.
func (p *Presence) ForceOffline(ctx context.Context) {
	p.mu.Lock()
	p.state = PresenceOffline
	p.mu.Unlock()
	p.write(ctx, PresenceOffline)
}

func (p *Presence) write(ctx context.Context, state PresenceState) {
	err := p.docs.Update(ctx, store.CollectionUsers, p.userId, map[string]interface{}{
		"isOnline": state == PresenceOnline,
		"lastSeen": store.ServerTimestamp{},
	})
	if err != nil {
		log.Log.Warn("failed to write presence for ", p.userId, ": ", err)
	}
}
