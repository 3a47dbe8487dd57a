// Package match orchestrates games end to end: hosting, discovery,
// joining, the round lifecycle and the stat ledger.
package match

import (
	"context"
	"sync"

	statDb "github.com/navidad-games/impostor/internal/database/stat/database"
	statModel "github.com/navidad-games/impostor/internal/database/stat/model"

	"github.com/navidad-games/impostor/internal/cache/cachelru"
	"github.com/navidad-games/impostor/internal/catalog"
	"github.com/navidad-games/impostor/internal/event"
	"github.com/navidad-games/impostor/internal/game"
	"github.com/navidad-games/impostor/internal/logging"
	"github.com/navidad-games/impostor/internal/session"
	"github.com/navidad-games/impostor/internal/transport"
)

func NewManager(config Config, words *catalog.Catalog, stats *statDb.DB) *Manager {
	return &Manager{
		config:  config,
		words:   words,
		stats:   stats,
		repo:    session.NewRepository(),
		runners: map[game.GameID]*Runner{},
	}
}

type Manager struct {
	mtx sync.Mutex

	config  Config
	words   *catalog.Catalog
	stats   *statDb.DB
	repo    *session.Repository
	runners map[game.GameID]*Runner
}

// HostGame creates a session with this device as host, starts its game
// loop and makes it discoverable.
func (m *Manager) HostGame(ctx context.Context, tr transport.Transport, gameConfig game.GameConfig, device game.DeviceInfo) (*Runner, error) {
	if err := tr.Start(ctx); err != nil {
		return nil, err
	}

	host := game.NewHostPlayer(gameConfig.HostName, gameConfig.MaxLives, device)
	s, err := m.repo.CreateGameSession(gameConfig, host)
	if err != nil {
		return nil, err
	}

	runner := newRunner(RoleHost, m.config, gameConfig, m.repo, m.words, tr, m.stats, s.ID, host.ID)
	runner.Run(ctx)

	if err := runner.do(ctx, func(ctx context.Context) error {
		return runner.advertise(ctx, s)
	}); err != nil {
		runner.Stop()
		m.repo.Delete(s.ID)
		return nil, err
	}

	m.mtx.Lock()
	m.runners[s.ID] = runner
	m.mtx.Unlock()

	logging.FromContext(ctx).Infof("hosting game %s as %s", s.ID, gameConfig.HostName)
	return runner, nil
}

// Discover sweeps for joinable games on the given transport. Sightings
// are deduplicated by game id, latest advertisement wins: a repeat of a
// known listing is swallowed, a changed one is reported again.
func (m *Manager) Discover(ctx context.Context, tr transport.Transport, found func(event.DiscoverableGame)) error {
	if err := tr.Start(ctx); err != nil {
		return err
	}

	size := m.config.CacheSize
	if size <= 0 {
		size = 64
	}
	seen, err := cachelru.NewLRU(size)
	if err != nil {
		return err
	}

	var mtx sync.Mutex
	return tr.Discover(ctx, func(g event.DiscoverableGame) {
		mtx.Lock()
		defer mtx.Unlock()

		if prev, ok := seen.Get(g.GameID); ok && prev.(event.DiscoverableGame) == g {
			return
		}
		seen.Add(g.GameID, g)
		found(g)
	})
}

// JoinGame connects to a discovered game and announces the new player.
// The roster and config arrive with the host's join broadcast.
func (m *Manager) JoinGame(ctx context.Context, tr transport.Transport, discovered event.DiscoverableGame, name string, device game.DeviceInfo) (*Runner, error) {
	if !discovered.CanJoin() {
		return nil, game.ErrGameIsFull
	}

	if err := tr.Start(ctx); err != nil {
		return nil, err
	}
	if err := tr.Connect(ctx, discovered.ConnectionInfo); err != nil {
		return nil, err
	}

	player := game.NewPeerPlayer(name, 0, device)
	placeholder := game.GameSession{
		ID:           discovered.GameID,
		CurrentState: game.WaitingForPlayers(),
		Players:      []game.Player{player},
	}
	m.repo.InstallSession(placeholder)

	runner := newRunner(RolePeer, m.config, game.GameConfig{}, m.repo, m.words, tr, nil, discovered.GameID, player.ID)
	runner.Run(ctx)

	if err := tr.Send(ctx, event.PlayerJoined(discovered.GameID, player)); err != nil {
		runner.Stop()
		m.repo.Delete(discovered.GameID)
		return nil, err
	}

	m.mtx.Lock()
	m.runners[discovered.GameID] = runner
	m.mtx.Unlock()

	logging.FromContext(ctx).Infof("joined game %s as %s", discovered.GameID, name)
	return runner, nil
}

func (m *Manager) Runner(id game.GameID) (*Runner, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	runner, ok := m.runners[id]
	return runner, ok
}

// Profile returns a player's aggregated results across finished games.
func (m *Manager) Profile(playerID game.PlayerID) (statModel.Profile, error) {
	if m.stats == nil {
		return statModel.Profile{}, statDb.ErrNotFound
	}
	return m.stats.FetchProfile(string(playerID))
}

// Stop tears every running game down.
func (m *Manager) Stop() {
	m.mtx.Lock()
	runners := make([]*Runner, 0, len(m.runners))
	for _, runner := range m.runners {
		runners = append(runners, runner)
	}
	m.runners = map[game.GameID]*Runner{}
	m.mtx.Unlock()

	for _, runner := range runners {
		runner.Stop()
	}
}
