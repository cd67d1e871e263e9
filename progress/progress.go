// Package progress implements the ProgressBus: a research-scoped pub/sub
// that streams structured progress events to subscribers, per
// spec.md §4.10. The subscription map mutates under a lock; publish is
// lock-free after snapshotting the subscriber set, so one slow or broken
// subscriber never blocks another.
package progress

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ujesh-sakariya/deepresearch-go/internal/telemetrymeter"
)

// Event is the small structured record delivered to every subscriber.
type Event struct {
	ResearchID string
	Progress   int
	Message    string
	Status     string
	LogEntry   string
}

// BroadcastName returns the fixed event name a WebSocket layer would use
// to broadcast e, per spec.md §4.10 ("research_progress_<research_id>").
func (e Event) BroadcastName() string {
	return fmt.Sprintf("research_progress_%s", e.ResearchID)
}

// Subscriber receives published events. Handle must not block for long;
// the bus does not enforce a timeout, consistent with "no forced kill"
// and cooperative cancellation elsewhere in this module.
type Subscriber func(Event)

// Unsubscribe removes a previously registered subscriber.
type Unsubscribe func()

// Bus is the process-wide progress pub/sub, one instance shared by every
// in-flight research.
type Bus struct {
	mu          sync.Mutex
	subscribers map[string]map[string]Subscriber
	meter       *telemetrymeter.Meter
}

// New builds an empty Bus with no metering.
func New() *Bus {
	return &Bus{subscribers: map[string]map[string]Subscriber{}}
}

// NewMetered builds an empty Bus that records one counter increment per
// published event via m, passing the event's Status as the meter's phase
// label.
func NewMetered(m *telemetrymeter.Meter) *Bus {
	return &Bus{subscribers: map[string]map[string]Subscriber{}, meter: m}
}

// Subscribe registers sub for researchID and returns a handle to remove
// it again.
func (b *Bus) Subscribe(researchID string, sub Subscriber) Unsubscribe {
	id := uuid.NewString()

	b.mu.Lock()
	if b.subscribers[researchID] == nil {
		b.subscribers[researchID] = map[string]Subscriber{}
	}
	b.subscribers[researchID][id] = sub
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers[researchID], id)
		if len(b.subscribers[researchID]) == 0 {
			delete(b.subscribers, researchID)
		}
	}
}

// Publish fans e out to every current subscriber of e.ResearchID.
// Subscriber errors (panics) are caught and logged so one broken
// subscriber cannot block or crash delivery to the others.
func (b *Bus) Publish(e Event) {
	b.meter.RecordProgressEvent(context.Background(), e.Status)

	b.mu.Lock()
	subs := make([]Subscriber, 0, len(b.subscribers[e.ResearchID]))
	for _, sub := range b.subscribers[e.ResearchID] {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		deliver(sub, e)
	}
}

// deliver isolates one subscriber's panic from the rest of the fan-out.
func deliver(sub Subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("progress: subscriber panicked delivering %s: %v", e.BroadcastName(), r)
		}
	}()
	sub(e)
}

// SubscriberCount reports how many subscribers researchID currently has,
// for diagnostics and tests.
func (b *Bus) SubscriberCount(researchID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers[researchID])
}
