package pipeline

import "sync"

// Stage identifies which part of the pipeline emitted a progress event.
type Stage string

const (
	StageRaster Stage = "raster"
	StageOCR    Stage = "ocr"
)

// Event reports per-page pipeline progress. Page is 1-based so callers can
// render "page i/N" directly.
type Event struct {
	Stage Stage
	Page  int
	Total int
	Pass  int    // 1-based OCR pass; 0 for raster events
	Mode  string // segmentation strategy name for OCR events
}

// Bus fans progress events out to subscribers without backpressure:
// publishing never blocks, and a subscriber that falls behind loses events
// rather than stalling the pipeline.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewBus creates an empty progress bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a consumer with the given channel buffer. The returned
// cancel func removes the subscription and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers e to every subscriber whose buffer has room.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
