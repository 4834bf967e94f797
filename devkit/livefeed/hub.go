// Package livefeed pushes live parameter values to connected devkit
// clients over WebTransport datagrams, so a GUI can show animated values
// without polling httpapi. The subscriber fan-out — snapshot targets under
// a read lock, send outside it so one slow client can't block the rest —
// follows the teacher's voice-datagram broadcast (server/room.go Broadcast).
package livefeed

import (
	"encoding/json"
	"log"
	"sync"

	"auroraengine/param"
)

// DatagramSender is the minimal interface a transport session must
// implement to receive pushed frames (mirrors the teacher's
// server/room.go DatagramSender, generalized from voice audio to
// JSON-encoded live-value frames).
type DatagramSender interface {
	SendDatagram([]byte) error
}

type subscriber struct {
	id     uint64
	sender DatagramSender
}

// Hub fans live-value frames out to every subscribed devkit session.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]DatagramSender
	nextID uint64

	failures map[uint64]int
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{
		subs:     make(map[uint64]DatagramSender),
		failures: make(map[uint64]int),
	}
}

// Subscribe registers sender and returns a handle to later Unsubscribe it.
func (h *Hub) Subscribe(sender DatagramSender) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.subs[id] = sender
	return id
}

// Unsubscribe removes a previously subscribed session.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
	delete(h.failures, id)
}

// SubscriberCount reports how many sessions are currently subscribed.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// circuitBreakerThreshold mirrors the teacher's own threshold for logging
// a subscriber as persistently failing (server/room.go).
const circuitBreakerThreshold = 10

// Broadcast sends payload to every subscribed session, snapshotting the
// subscriber list under a read lock and sending outside it.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	targets := make([]subscriber, 0, len(h.subs))
	for id, s := range h.subs {
		targets = append(targets, subscriber{id: id, sender: s})
	}
	h.mu.RUnlock()

	for _, t := range targets {
		if err := t.sender.SendDatagram(payload); err != nil {
			h.mu.Lock()
			h.failures[t.id]++
			n := h.failures[t.id]
			h.mu.Unlock()
			if n == circuitBreakerThreshold {
				log.Printf("[livefeed] subscriber %d: %d consecutive send failures", t.id, n)
			}
			continue
		}
		h.mu.Lock()
		delete(h.failures, t.id)
		h.mu.Unlock()
	}
}

// liveValueFrame is the wire shape of one pushed update.
type liveValueFrame struct {
	Values map[string]any `json:"values"`
}

// PublishLiveValues JSON-encodes the current live-values snapshot and
// broadcasts it to every subscriber. Intended to be called once per tick
// (or at a throttled rate) from the engine's render loop.
func (h *Hub) PublishLiveValues(values map[param.ID]any) error {
	if h.SubscriberCount() == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for id, v := range values {
		out[string(id)] = v
	}
	payload, err := json.Marshal(liveValueFrame{Values: out})
	if err != nil {
		return err
	}
	h.Broadcast(payload)
	return nil
}
