package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"

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

const scanWindow = 10 * time.Second

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

	ctx = logging.WithLogger(ctx, logging.New(config.Debug))

	if len(os.Args) < 2 {
		fmt.Println("uso: impostor-cli <scan|join <nombre>|stats <jugador>|words [categoría]>")
		return nil
	}

	switch os.Args[1] {
	case "scan":
		return runScan(ctx, config)
	case "join":
		if len(os.Args) < 3 {
			return fmt.Errorf("uso: impostor-cli join <nombre>")
		}
		return runJoin(ctx, config, os.Args[2])
	case "stats":
		if len(os.Args) < 3 {
			return fmt.Errorf("uso: impostor-cli stats <jugador>")
		}
		return runStats(ctx, config, os.Args[2])
	case "words":
		query := ""
		if len(os.Args) > 2 {
			query = os.Args[2]
		}
		return runWords(query)
	default:
		return fmt.Errorf("comando desconocido: %s", os.Args[1])
	}
}

func runScan(ctx context.Context, config match.Config) error {
	manager := match.NewManager(config, catalog.New(), nil)
	defer manager.Stop()

	tr := ble.New(logging.FromContext(ctx))
	defer tr.Close()

	fmt.Println("buscando partidas...")
	var sightings atomic.Int64
	err := manager.Discover(ctx, tr, func(g event.DiscoverableGame) {
		sightings.Add(1)
		fmt.Printf("  %s  anfitrión=%s  jugadores=%d/%d  estado=%s\n",
			g.GameID, g.HostName, g.PlayerCount, g.MaxPlayers, g.StateKind)
	})
	if err != nil {
		return err
	}

	util.Sleep(scanWindow)
	tr.StopDiscovery()
	if sightings.Load() == 0 {
		fmt.Println("no se encontraron partidas")
	}
	return nil
}

func runJoin(ctx context.Context, config match.Config, name string) error {
	manager := match.NewManager(config, catalog.New(), nil)
	defer manager.Stop()

	tr := ble.New(logging.FromContext(ctx))

	var joinable *event.DiscoverableGame
	foundCh := make(chan event.DiscoverableGame, 1)
	if err := manager.Discover(ctx, tr, func(g event.DiscoverableGame) {
		if g.CanJoin() {
			select {
			case foundCh <- g:
			default:
			}
		}
	}); err != nil {
		return err
	}

	fmt.Println("buscando una partida abierta...")
	select {
	case g := <-foundCh:
		joinable = &g
	case <-time.After(scanWindow):
		return game.ErrGameNotFound.WithDetailf("nothing discoverable within %s", scanWindow)
	case <-ctx.Done():
		return ctx.Err()
	}
	tr.StopDiscovery()

	device := game.DeviceInfo{Platform: game.PlatformLinux, DeviceName: "impostor-cli"}
	runner, err := manager.JoinGame(ctx, tr, *joinable, name, device)
	if err != nil {
		return err
	}

	fmt.Printf("dentro de la partida %s. Comandos: vote <id>, guess <palabra>, players, leave\n", runner.GameID())

	go printNotes(ctx, runner)
	return commandLoop(ctx, runner)
}

func printNotes(ctx context.Context, runner *match.Runner) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-runner.Notes():
			switch ev.Type {
			case event.TypeGameStateChanged:
				if ev.State == nil {
					continue
				}
				fmt.Printf("-> fase: %s\n", ev.State.Kind)
				if ev.State.Kind == game.StateWordReveal {
					printWord(runner, ev.State)
				}
			case event.TypeTimerUpdate:
				if ev.Remaining <= 5 {
					fmt.Printf("-> %s: %d\n", ev.Phase, ev.Remaining)
				}
			case event.TypeRoundEnded:
				if ev.Outcome != nil {
					fmt.Printf("-> ronda %d: %s\n", ev.Round, ev.Outcome.Kind)
				}
			case event.TypeGameEnded:
				if ev.Winner != nil {
					fmt.Printf("-> fin del juego: %s\n", ev.Winner.Kind)
				}
			case event.TypePlayerKicked:
				if ev.PlayerID == runner.SelfID() {
					fmt.Println(game.ErrHostDisconnected.UserMessage())
					return
				}
			}
		}
	}
}

// printWord shows the secret word to allies and only the category to
// the impostor.
func printWord(runner *match.Runner, st *game.GameState) {
	s, err := runner.Session()
	if err != nil {
		return
	}

	if s.ImpostorID == runner.SelfID() {
		fmt.Printf("   eres el impostor. Categoría: %s\n", st.Category.Name)
		return
	}
	fmt.Printf("   palabra secreta: %s\n", st.Word)
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
		case "vote":
			if len(fields) < 2 {
				fmt.Println("uso: vote <id>")
				continue
			}
			if err := runner.Vote(ctx, game.PlayerID(fields[1])); err != nil {
				fmt.Println(userMessage(err))
			}
		case "guess":
			if len(fields) < 2 {
				fmt.Println("uso: guess <palabra>")
				continue
			}
			if err := runner.Guess(ctx, strings.Join(fields[1:], " ")); err != nil {
				fmt.Println(userMessage(err))
			}
		case "players":
			s, err := runner.Session()
			if err != nil {
				fmt.Println(userMessage(err))
				continue
			}
			for _, p := range s.Players {
				fmt.Printf("  %s  %s  vidas=%d\n", p.ID, p.Name, p.Lives)
			}
		case "leave":
			return runner.Leave(ctx)
		default:
			fmt.Println("comandos: vote <id>, guess <palabra>, players, leave")
		}
	}
	return scanner.Err()
}

func userMessage(err error) string {
	var gameErr *game.Error
	if errors.As(err, &gameErr) {
		return gameErr.UserMessage()
	}
	return err.Error()
}

func runStats(ctx context.Context, config match.Config, playerID string) error {
	db, err := database.New(ctx, &config.Db)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	statCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		return err
	}

	profile, err := statDb.New(db, statCache).FetchProfile(playerID)
	if err != nil {
		return err
	}

	fmt.Printf("jugador: %s\n", playerID)
	fmt.Printf("  partidas: %d (ganadas %d, perdidas %d, %.0f%%)\n",
		profile.GamesPlayed, profile.GamesWon, profile.GamesLost, profile.WinRate())
	fmt.Printf("  impostor: %d veces, %.0f%% ganadas\n", profile.TimesImpostor, profile.ImpostorWinRate())
	fmt.Printf("  rondas promedio: %.1f\n", profile.AverageRounds)
	if len(profile.FavoriteCategories) > 0 {
		fmt.Printf("  categorías favoritas: %s\n", strings.Join(profile.FavoriteCategories, ", "))
	}
	if !profile.LastPlayed.IsZero() {
		fmt.Printf("  última partida: %s\n", profile.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func runWords(query string) error {
	words := catalog.New()

	categories := words.AllCategories()
	if query != "" {
		categories = words.Search(query)
	}
	if len(categories) == 0 {
		return game.ErrResourceNotFound.WithDetailf("query %q", query)
	}

	for _, category := range categories {
		fmt.Printf("%s (%s, %s): %d palabras\n",
			category.Name, category.ID, category.Difficulty, len(category.Words))
	}
	return nil
}
