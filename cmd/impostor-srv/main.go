package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"

	"github.com/navidad-games/impostor/internal/cache/cachelru"
	"github.com/navidad-games/impostor/internal/catalog"
	"github.com/navidad-games/impostor/internal/database"
	statDb "github.com/navidad-games/impostor/internal/database/stat/database"
	"github.com/navidad-games/impostor/internal/event"
	"github.com/navidad-games/impostor/internal/game"
	"github.com/navidad-games/impostor/internal/logging"
	"github.com/navidad-games/impostor/internal/match"
	"github.com/navidad-games/impostor/internal/shutdown"
	"github.com/navidad-games/impostor/internal/transport/ble"
	"github.com/navidad-games/impostor/internal/util"
)

// lobbyEnv holds the host's game settings; everything else rides on
// match.Config.
type lobbyEnv struct {
	Categories     []string `envconfig:"IMPOSTOR_CATEGORIES" default:"animales_domesticos,frutas"`
	MaxLives       int      `envconfig:"IMPOSTOR_MAX_LIVES" default:"3"`
	DiscussionTime int      `envconfig:"IMPOSTOR_DISCUSSION_TIME" default:"180"`
	VotingTime     int      `envconfig:"IMPOSTOR_VOTING_TIME" default:"60"`
	MaxPlayers     int      `envconfig:"IMPOSTOR_MAX_PLAYERS" default:"8"`
}

func main() {
	ctx, done := shutdown.New()
	defer done()

	logger := logging.FromContext(ctx)
	if err := realMain(ctx); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context) error {
	config := match.Config{}
	if err := envconfig.Process("", &config); err != nil {
		return fmt.Errorf("processing the config: %w", err)
	}

	lobby := lobbyEnv{}
	if err := envconfig.Process("", &lobby); err != nil {
		return fmt.Errorf("processing the lobby config: %w", err)
	}

	ctx = logging.WithLogger(ctx, logging.New(config.Debug))

	db, err := database.New(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close(ctx)

	statCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("create lru cache: %w", err)
	}

	categories := make([]catalog.CategoryID, 0, len(lobby.Categories))
	for _, id := range lobby.Categories {
		categories = append(categories, catalog.CategoryID(strings.TrimSpace(id)))
	}

	gameConfig := game.GameConfig{
		HostName:              config.HostName,
		MaxLives:              lobby.MaxLives,
		DiscussionTimeSeconds: lobby.DiscussionTime,
		VotingTimeSeconds:     lobby.VotingTime,
		WordCategories:        categories,
		MinPlayers:            game.MinPlayers,
		MaxPlayers:            lobby.MaxPlayers,
	}
	if err := gameConfig.Validate(); err != nil {
		return fmt.Errorf("lobby config: %w", err)
	}

	manager := match.NewManager(config, catalog.New(), statDb.New(db, statCache))
	defer manager.Stop()

	device := game.DeviceInfo{Platform: game.PlatformLinux, DeviceName: "impostor-srv"}
	runner, err := manager.HostGame(ctx, ble.New(logging.FromContext(ctx)), gameConfig, device)
	if err != nil {
		return fmt.Errorf("host game: %w", err)
	}

	fmt.Printf("Hosting game %s as %s. Commands: start, players, kick <id>, quit\n", runner.GameID(), config.HostName)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		printNotes(ctx, runner)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return commandLoop(ctx, runner)
	})
	return g.Wait()
}

func printNotes(ctx context.Context, runner *match.Runner) {
	logger := logging.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-runner.Notes():
			switch ev.Type {
			case event.TypePlayerJoined:
				if ev.Player != nil {
					fmt.Printf("-> %s se unió (%s)\n", ev.Player.Name, ev.Player.ID)
				}
			case event.TypeGameStateChanged:
				if ev.State != nil {
					fmt.Printf("-> fase: %s\n", ev.State.Kind)
				}
			case event.TypeRoundEnded:
				if ev.Outcome != nil {
					fmt.Printf("-> ronda %d: %s\n", ev.Round, ev.Outcome.Kind)
				}
			case event.TypeGameEnded:
				if ev.Winner != nil {
					fmt.Printf("-> fin del juego: %s\n", ev.Winner.Kind)
				}
			default:
				logger.Debugf("event %s", ev.Type)
			}
		}
	}
}

func commandLoop(ctx context.Context, runner *match.Runner) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "start":
			if err := runner.StartGame(ctx); err != nil {
				fmt.Printf("no se pudo iniciar: %v\n", game.RecoveryFor(err))
				fmt.Println(err)
			}
		case "players":
			s, err := runner.Session()
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("%d %s:\n", len(s.Players), util.Plural(len(s.Players), "jugador", "jugadores"))
			for _, p := range s.Players {
				fmt.Printf("  %s  %s  vidas=%d\n", p.ID, p.Name, p.Lives)
			}
		case "kick":
			if len(fields) < 2 {
				fmt.Println("uso: kick <id>")
				continue
			}
			if err := runner.Kick(ctx, game.PlayerID(fields[1])); err != nil {
				fmt.Println(err)
			}
		case "quit":
			return runner.Leave(ctx)
		default:
			fmt.Println("comandos: start, players, kick <id>, quit")
		}
	}
	return scanner.Err()
}
