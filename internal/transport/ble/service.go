// Package ble is the Bluetooth Low Energy transport. The host runs a
// GATT server with a single message characteristic: peers write their
// frames to it and subscribe to its notifications for the host's
// broadcasts. Discovery rides on advertisement service data.
package ble

import (
	"context"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"

	"go.uber.org/zap"

	"github.com/navidad-games/impostor/internal/event"
	"github.com/navidad-games/impostor/internal/game"
	"github.com/navidad-games/impostor/internal/transport"
)

var (
	serviceUUID = mustParseUUID("12345678-1234-5678-9012-123456789abc")
	messageUUID = mustParseUUID("87654321-4321-8765-2109-cba987654321")
)

func mustParseUUID(s string) bluetooth.UUID {
	uuid, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return uuid
}

func New(logger *zap.SugaredLogger) *Service {
	return &Service{
		logger:       logger,
		adapter:      bluetooth.DefaultAdapter,
		inbound:      make(chan transport.Inbound, 256),
		peers:        map[string]struct{}{},
		reassemblers: map[string]*transport.Reassembler{},
		addresses:    map[string]bluetooth.Address{},
	}
}

type Service struct {
	logger  *zap.SugaredLogger
	adapter *bluetooth.Adapter

	mtx          sync.Mutex
	started      bool
	closed       bool
	serving      bool
	advertising  bool
	scanning     bool
	seq          byte
	msgChar      bluetooth.Characteristic
	adv          *bluetooth.Advertisement
	device       *bluetooth.Device
	hostChar     *bluetooth.DeviceCharacteristic
	peers        map[string]struct{}
	reassemblers map[string]*transport.Reassembler
	addresses    map[string]bluetooth.Address

	inbound chan transport.Inbound
}

var _ transport.Transport = (*Service)(nil)

func (s *Service) Start(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return game.ErrBluetoothNotAvailable.WithDetailf("transport closed")
	}
	if s.started {
		return nil
	}

	if err := s.adapter.Enable(); err != nil {
		return game.ErrBluetoothNotAvailable.WithCause(err)
	}

	s.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		s.onConnectChange(device, connected)
	})

	s.started = true
	return nil
}

// Advertise exposes the lobby in BLE service data and brings the GATT
// server up. The beacon stays small: full session state travels over
// the characteristic after joining.
func (s *Service) Advertise(ctx context.Context, ad transport.Advertisement) error {
	if err := s.ensureStarted(); err != nil {
		return err
	}

	data, err := ad.Encode()
	if err != nil {
		return err
	}

	if err := s.serve(); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.advertising {
		if err := s.adv.Stop(); err != nil {
			return game.ErrBluetoothNotAvailable.WithCause(err)
		}
		s.advertising = false
	}

	s.adv = s.adapter.DefaultAdvertisement()
	options := bluetooth.AdvertisementOptions{
		LocalName:    ad.HostName,
		ServiceUUIDs: []bluetooth.UUID{serviceUUID},
		ServiceData: []bluetooth.ServiceDataElement{
			{UUID: serviceUUID, Data: data},
		},
	}
	if err := s.adv.Configure(options); err != nil {
		return game.ErrBluetoothNotAvailable.WithCause(err)
	}
	if err := s.adv.Start(); err != nil {
		return game.ErrBluetoothNotAvailable.WithCause(err)
	}

	s.advertising = true
	return nil
}

func (s *Service) StopAdvertising() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.advertising {
		return
	}
	if err := s.adv.Stop(); err != nil {
		s.logger.Warnf("stop advertising: %v", err)
	}
	s.advertising = false
}

// serve registers the GATT service once. Peer writes land in WriteEvent
// keyed by connection, so concurrent writers do not mix frames.
func (s *Service) serve() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.serving {
		return nil
	}

	err := s.adapter.AddService(&bluetooth.Service{
		UUID: serviceUUID,
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				Handle: &s.msgChar,
				UUID:   messageUUID,
				Flags: bluetooth.CharacteristicWritePermission |
					bluetooth.CharacteristicWriteWithoutResponsePermission |
					bluetooth.CharacteristicNotifyPermission |
					bluetooth.CharacteristicReadPermission,
				WriteEvent: func(client bluetooth.Connection, offset int, value []byte) {
					s.onFrame(fmt.Sprintf("conn-%d", client), value)
				},
			},
		},
	})
	if err != nil {
		return game.ErrBluetoothNotAvailable.WithCause(err)
	}

	s.serving = true
	return nil
}

func (s *Service) Discover(ctx context.Context, found func(event.DiscoverableGame)) error {
	if err := s.ensureStarted(); err != nil {
		return err
	}

	s.mtx.Lock()
	if s.scanning {
		s.mtx.Unlock()
		return nil
	}
	s.scanning = true
	s.mtx.Unlock()

	go func() {
		err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !result.AdvertisementPayload.HasServiceUUID(serviceUUID) {
				return
			}

			for _, element := range result.AdvertisementPayload.ServiceData() {
				if element.UUID != serviceUUID {
					continue
				}

				ad, err := transport.DecodeAdvertisement(element.Data)
				if err != nil {
					s.logger.Debugf("skipping beacon from %s: %v", result.Address, err)
					continue
				}

				addr := result.Address.String()
				s.mtx.Lock()
				s.addresses[addr] = result.Address
				s.mtx.Unlock()

				found(ad.Discoverable(event.ConnectionInfo{
					ConnectionType: game.ConnectionBluetooth,
					Address:        addr,
				}))
			}
		})
		if err != nil {
			s.logger.Warnf("scan ended: %v", err)
		}

		s.mtx.Lock()
		s.scanning = false
		s.mtx.Unlock()
	}()

	return nil
}

func (s *Service) StopDiscovery() {
	s.mtx.Lock()
	scanning := s.scanning
	s.mtx.Unlock()

	if !scanning {
		return
	}
	if err := s.adapter.StopScan(); err != nil {
		s.logger.Warnf("stop scan: %v", err)
	}
}

// Connect dials a host seen during discovery and subscribes to its
// message characteristic.
func (s *Service) Connect(ctx context.Context, info event.ConnectionInfo) error {
	if err := s.ensureStarted(); err != nil {
		return err
	}

	s.mtx.Lock()
	addr, ok := s.addresses[info.Address]
	s.mtx.Unlock()
	if !ok {
		return game.ErrConnectionTimeout.WithDetailf("address %s was never discovered", info.Address)
	}

	device, err := s.adapter.Connect(addr, bluetooth.ConnectionParams{})
	if err != nil {
		return game.ErrConnectionTimeout.WithCause(err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil || len(services) == 0 {
		_ = device.Disconnect()
		return game.ErrConnectionLost.WithDetailf("game service missing on %s", info.Address).WithCause(err)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{messageUUID})
	if err != nil || len(chars) == 0 {
		_ = device.Disconnect()
		return game.ErrConnectionLost.WithDetailf("message characteristic missing on %s", info.Address).WithCause(err)
	}

	char := chars[0]
	if err := char.EnableNotifications(func(buf []byte) {
		s.onFrame("host", buf)
	}); err != nil {
		_ = device.Disconnect()
		return game.ErrConnectionLost.WithCause(err)
	}

	s.mtx.Lock()
	s.device = &device
	s.hostChar = &char
	s.mtx.Unlock()
	return nil
}

// Broadcast notifies every subscribed peer. BLE notifications have no
// per-peer addressing; filtering by player id happens above this layer.
func (s *Service) Broadcast(ctx context.Context, ev event.Event) error {
	frames, err := s.marshalFrames(ev)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	serving := s.serving
	s.mtx.Unlock()
	if !serving {
		return game.ErrMessageSendFailed.WithDetailf("not hosting")
	}

	for _, frame := range frames {
		if _, err := s.msgChar.Write(frame); err != nil {
			return game.ErrMessageSendFailed.WithCause(err)
		}
	}
	return nil
}

func (s *Service) Send(ctx context.Context, ev event.Event) error {
	s.mtx.Lock()
	char := s.hostChar
	s.mtx.Unlock()
	if char == nil {
		return game.ErrConnectionLost.WithDetailf("not connected to a host")
	}

	frames, err := s.marshalFrames(ev)
	if err != nil {
		return err
	}

	for _, frame := range frames {
		if _, err := char.WriteWithoutResponse(frame); err != nil {
			return game.ErrMessageSendFailed.WithCause(err)
		}
	}
	return nil
}

func (s *Service) Receive() <-chan transport.Inbound {
	return s.inbound
}

func (s *Service) ConnectedPeers() []string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	addrs := make([]string, 0, len(s.peers))
	for addr := range s.peers {
		addrs = append(addrs, addr)
	}
	return addrs
}

func (s *Service) Close() error {
	s.StopAdvertising()
	s.StopDiscovery()

	s.mtx.Lock()
	device := s.device
	s.device = nil
	s.hostChar = nil
	s.closed = true
	s.started = false
	s.mtx.Unlock()

	if device != nil {
		if err := device.Disconnect(); err != nil {
			return game.ErrConnectionLost.WithCause(err)
		}
	}
	return nil
}

func (s *Service) ensureStarted() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return game.ErrBluetoothNotAvailable.WithDetailf("transport closed")
	}
	if !s.started {
		return game.ErrBluetoothNotAvailable.WithDetailf("transport not started")
	}
	return nil
}

func (s *Service) marshalFrames(ev event.Event) ([][]byte, error) {
	payload, err := event.Marshal(ev)
	if err != nil {
		return nil, err
	}

	s.mtx.Lock()
	s.seq++
	seq := s.seq
	s.mtx.Unlock()

	return transport.Fragment(seq, payload)
}

func (s *Service) onConnectChange(device bluetooth.Device, connected bool) {
	addr := device.Address.String()

	s.mtx.Lock()
	if connected {
		s.peers[addr] = struct{}{}
	} else {
		delete(s.peers, addr)
	}
	s.mtx.Unlock()

	s.logger.Debugw("link change", "peer", addr, "connected", connected)
}

func (s *Service) onFrame(from string, frame []byte) {
	s.mtx.Lock()
	r, ok := s.reassemblers[from]
	if !ok {
		r = transport.NewReassembler()
		s.reassemblers[from] = r
	}
	payload, err := r.Feed(frame)
	s.mtx.Unlock()

	if err != nil {
		s.logger.Debugf("dropping frame from %s: %v", from, err)
		return
	}
	if payload == nil {
		return
	}

	ev, err := event.Unmarshal(payload)
	if err != nil {
		s.logger.Warnf("undecodable event from %s: %v", from, err)
		return
	}

	select {
	case s.inbound <- transport.Inbound{From: from, Event: ev}:
	default:
		s.logger.Warnw("inbound queue full, dropping event", "type", ev.Type, "from", from)
	}
}
