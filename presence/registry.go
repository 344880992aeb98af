package presence

import (
	"fmt"
	"sync"

	Logger "github.com/valenstagram/valenstagram-backend/utils/log"
)

// Registry tracks which users currently have live channels open and fans
// events out to them. It is process-wide state: an instance is created at
// startup and handed to the handlers that need it. All methods are safe for
// concurrent use; the map is never iterated while a connect or disconnect
// mutates it.
type Registry struct {
	mu       sync.Mutex
	channels map[string]map[Channel]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		channels: map[string]map[Channel]struct{}{},
	}
}

// Connect registers ch under userId. The same user may connect any number of
// channels.
func (r *Registry) Connect(userId string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[userId]; !ok {
		r.channels[userId] = map[Channel]struct{}{}
	}
	r.channels[userId][ch] = struct{}{}
}

// Disconnect removes ch from userId's set, dropping the whole entry once the
// set is empty so the map never retains offline users.
func (r *Registry) Disconnect(userId string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.channels[userId]
	if !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(r.channels, userId)
	}
}

// IsOnline reports whether userId has at least one open channel.
func (r *Registry) IsOnline(userId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels[userId]) > 0
}

// ConnectionCount returns the number of open channels for userId.
func (r *Registry) ConnectionCount(userId string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels[userId])
}

// SendToUser pushes event to every channel userId currently has open. A user
// with no channels is a silent no-op: delivery is best effort and persistence
// is the source of truth. A failure on one channel never blocks the others.
func (r *Registry) SendToUser(userId string, event Event) {
	for _, ch := range r.snapshot(userId) {
		if err := ch.Send(event); err != nil {
			Logger.LogV2.Error(fmt.Sprintf("failed to push %s event to a channel of user %s: %v", event.Event, userId, err))
		}
	}
}

// Broadcast pushes event to every channel of every connected user.
func (r *Registry) Broadcast(event Event) {
	r.mu.Lock()
	all := make([]Channel, 0, len(r.channels))
	for _, set := range r.channels {
		for ch := range set {
			all = append(all, ch)
		}
	}
	r.mu.Unlock()

	for _, ch := range all {
		if err := ch.Send(event); err != nil {
			Logger.LogV2.Error(fmt.Sprintf("failed to broadcast %s event: %v", event.Event, err))
		}
	}
}

// snapshot copies userId's channel set under the lock so delivery happens
// without holding it.
func (r *Registry) snapshot(userId string) []Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.channels[userId]
	if !ok {
		return nil
	}
	channels := make([]Channel, 0, len(set))
	for ch := range set {
		channels = append(channels, ch)
	}
	return channels
}
