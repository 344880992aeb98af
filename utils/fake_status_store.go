package utils

import "sync"

// FakeStatusStore is the in-memory StatusStore used by tests and by local
// development without a Redis instance.
type FakeStatusStore struct {
	mu     sync.Mutex
	counts map[string]map[string]int64
}

func NewFakeStatusStore() *FakeStatusStore {
	return &FakeStatusStore{counts: map[string]map[string]int64{}}
}

func (f *FakeStatusStore) IncrementUnread(userId, conversationId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.counts[userId]; !ok {
		f.counts[userId] = map[string]int64{}
	}
	f.counts[userId][conversationId] += 1
	return nil
}

func (f *FakeStatusStore) ClearUnread(userId, conversationId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.counts[userId]; ok {
		delete(m, conversationId)
		if len(m) == 0 {
			delete(f.counts, userId)
		}
	}
	return nil
}

func (f *FakeStatusStore) GetUnreadCounts(userId string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for conversationId, n := range f.counts[userId] {
		counts[conversationId] = n
	}
	return counts, nil
}
