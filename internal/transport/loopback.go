package transport

import (
	"context"
	"sort"
	"sync"

	"github.com/navidad-games/impostor/internal/event"
	"github.com/navidad-games/impostor/internal/game"
)

// Hub wires Loopback nodes together in process. It stands in for the
// radio during tests and the single-machine demo mode, but events still
// cross the full marshal, fragment and reassemble path.
type Hub struct {
	mtx   sync.Mutex
	nodes map[string]*Loopback
	ads   map[string]Advertisement
}

func NewHub() *Hub {
	return &Hub{
		nodes: map[string]*Loopback{},
		ads:   map[string]Advertisement{},
	}
}

// Node creates a transport endpoint addressable by addr.
func (h *Hub) Node(addr string) *Loopback {
	node := &Loopback{
		hub:          h,
		addr:         addr,
		inbound:      make(chan Inbound, 256),
		peers:        map[string]*Loopback{},
		reassemblers: map[string]*Reassembler{},
	}

	h.mtx.Lock()
	h.nodes[addr] = node
	h.mtx.Unlock()

	return node
}

type Loopback struct {
	hub  *Hub
	addr string

	mtx          sync.Mutex
	started      bool
	closed       bool
	seq          byte
	peers        map[string]*Loopback
	host         *Loopback
	reassemblers map[string]*Reassembler

	inbound chan Inbound
}

var _ Transport = (*Loopback)(nil)

func (l *Loopback) Start(context.Context) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if l.closed {
		return game.ErrConnectionLost.WithDetailf("transport closed")
	}
	l.started = true
	return nil
}

func (l *Loopback) Advertise(_ context.Context, ad Advertisement) error {
	if err := l.ensureStarted(); err != nil {
		return err
	}

	l.hub.mtx.Lock()
	l.hub.ads[l.addr] = ad
	l.hub.mtx.Unlock()
	return nil
}

func (l *Loopback) StopAdvertising() {
	l.hub.mtx.Lock()
	delete(l.hub.ads, l.addr)
	l.hub.mtx.Unlock()
}

// Discover sweeps the hub once; loopback games do not come and go.
func (l *Loopback) Discover(_ context.Context, found func(event.DiscoverableGame)) error {
	if err := l.ensureStarted(); err != nil {
		return err
	}

	l.hub.mtx.Lock()
	type sighting struct {
		addr string
		ad   Advertisement
	}
	var sightings []sighting
	for addr, ad := range l.hub.ads {
		if addr == l.addr {
			continue
		}
		sightings = append(sightings, sighting{addr: addr, ad: ad})
	}
	l.hub.mtx.Unlock()

	sort.Slice(sightings, func(i, j int) bool { return sightings[i].addr < sightings[j].addr })
	for _, s := range sightings {
		found(s.ad.Discoverable(event.ConnectionInfo{
			ConnectionType: game.ConnectionBluetooth,
			Address:        s.addr,
		}))
	}
	return nil
}

func (l *Loopback) StopDiscovery() {}

func (l *Loopback) Connect(_ context.Context, info event.ConnectionInfo) error {
	if err := l.ensureStarted(); err != nil {
		return err
	}

	l.hub.mtx.Lock()
	host, ok := l.hub.nodes[info.Address]
	l.hub.mtx.Unlock()
	if !ok {
		return game.ErrConnectionTimeout.WithDetailf("no host at %s", info.Address)
	}

	host.mtx.Lock()
	if host.closed {
		host.mtx.Unlock()
		return game.ErrHostDisconnected
	}
	host.peers[l.addr] = l
	host.mtx.Unlock()

	l.mtx.Lock()
	l.host = host
	l.mtx.Unlock()
	return nil
}

func (l *Loopback) Broadcast(ctx context.Context, ev event.Event) error {
	frames, err := l.marshalFrames(ev)
	if err != nil {
		return err
	}

	l.mtx.Lock()
	peers := make([]*Loopback, 0, len(l.peers))
	for _, peer := range l.peers {
		peers = append(peers, peer)
	}
	l.mtx.Unlock()

	for _, peer := range peers {
		peer.deliver(l.addr, frames)
	}
	return nil
}

func (l *Loopback) Send(ctx context.Context, ev event.Event) error {
	l.mtx.Lock()
	host := l.host
	l.mtx.Unlock()
	if host == nil {
		return game.ErrConnectionLost.WithDetailf("not connected to a host")
	}

	frames, err := l.marshalFrames(ev)
	if err != nil {
		return err
	}

	host.deliver(l.addr, frames)
	return nil
}

func (l *Loopback) Receive() <-chan Inbound {
	return l.inbound
}

func (l *Loopback) ConnectedPeers() []string {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	addrs := make([]string, 0, len(l.peers))
	for addr := range l.peers {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	return addrs
}

func (l *Loopback) Close() error {
	l.StopAdvertising()

	l.mtx.Lock()
	if l.closed {
		l.mtx.Unlock()
		return nil
	}
	l.closed = true
	host := l.host
	l.host = nil
	l.peers = map[string]*Loopback{}
	l.mtx.Unlock()

	if host != nil {
		host.mtx.Lock()
		delete(host.peers, l.addr)
		host.mtx.Unlock()
	}

	l.hub.mtx.Lock()
	delete(l.hub.nodes, l.addr)
	l.hub.mtx.Unlock()
	return nil
}

func (l *Loopback) ensureStarted() error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if l.closed {
		return game.ErrConnectionLost.WithDetailf("transport closed")
	}
	if !l.started {
		return game.ErrBluetoothNotAvailable.WithDetailf("transport not started")
	}
	return nil
}

func (l *Loopback) marshalFrames(ev event.Event) ([][]byte, error) {
	payload, err := event.Marshal(ev)
	if err != nil {
		return nil, err
	}

	l.mtx.Lock()
	l.seq++
	seq := l.seq
	l.mtx.Unlock()

	return Fragment(seq, payload)
}

// deliver runs on the sender's goroutine; frames of one event arrive
// back to back, matching the ordered single-link guarantee.
func (l *Loopback) deliver(from string, frames [][]byte) {
	l.mtx.Lock()
	if l.closed {
		l.mtx.Unlock()
		return
	}
	r, ok := l.reassemblers[from]
	if !ok {
		r = NewReassembler()
		l.reassemblers[from] = r
	}

	var payloads [][]byte
	for _, frame := range frames {
		payload, err := r.Feed(frame)
		if err != nil || payload == nil {
			continue
		}
		payloads = append(payloads, payload)
	}
	l.mtx.Unlock()

	for _, payload := range payloads {
		ev, err := event.Unmarshal(payload)
		if err != nil {
			continue
		}
		select {
		case l.inbound <- Inbound{From: from, Event: ev}:
		default:
			// Receiver gave up; dropping beats deadlocking the sender.
		}
	}
}
