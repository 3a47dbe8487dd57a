package match

import (
	"context"
	"sync"
	"time"

	"github.com/valyala/fastrand"

	statDb "github.com/navidad-games/impostor/internal/database/stat/database"
	statModel "github.com/navidad-games/impostor/internal/database/stat/model"

	"github.com/navidad-games/impostor/internal/catalog"
	"github.com/navidad-games/impostor/internal/event"
	"github.com/navidad-games/impostor/internal/game"
	"github.com/navidad-games/impostor/internal/logging"
	"github.com/navidad-games/impostor/internal/session"
	"github.com/navidad-games/impostor/internal/state"
	"github.com/navidad-games/impostor/internal/transport"
)

type Role uint8

const (
	RoleHost Role = iota + 1
	RolePeer
)

// Runner drives one game. Every mutation funnels through a single
// command loop, so session and machine access never race. The host
// runner owns the state machine and the authoritative session; a peer
// runner keeps a replica and relays intents to the host.
type Runner struct {
	role   Role
	config Config
	repo   *session.Repository
	words  *catalog.Catalog
	tr     transport.Transport
	stats  *statDb.DB

	machine *state.Machine

	gameID game.GameID
	selfID game.PlayerID

	cmdCh chan func(ctx context.Context)
	notes chan event.Event

	sema   sync.Once
	cancel func()
	done   chan struct{}
}

func newRunner(role Role, config Config, gameConfig game.GameConfig, repo *session.Repository,
	words *catalog.Catalog, tr transport.Transport, stats *statDb.DB, gameID game.GameID, selfID game.PlayerID) *Runner {
	r := &Runner{
		role:   role,
		config: config,
		repo:   repo,
		words:  words,
		tr:     tr,
		stats:  stats,
		gameID: gameID,
		selfID: selfID,
		cmdCh:  make(chan func(ctx context.Context), 16),
		notes:  make(chan event.Event, 256),
		done:   make(chan struct{}),
	}

	if role == RoleHost {
		r.machine = state.New(state.Config{Game: gameConfig, TickInterval: config.TickInterval})
	}
	return r
}

func (r *Runner) Run(ctx context.Context) {
	r.sema.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		r.cancel = cancel
		go r.loop(ctx)
		logging.FromContext(ctx).Infof("game loop started, game: %s, role: %d", r.gameID, r.role)
	})
}

func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	<-r.done
}

func (r *Runner) GameID() game.GameID { return r.gameID }

func (r *Runner) SelfID() game.PlayerID { return r.selfID }

// Notes streams everything worth showing: state changes, timer ticks,
// joins, votes, results. The UI drains it; a full buffer drops.
func (r *Runner) Notes() <-chan event.Event {
	return r.notes
}

func (r *Runner) Session() (game.GameSession, error) {
	return r.repo.GameSession(r.gameID)
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)

	var machineEvents <-chan state.Event
	if r.machine != nil {
		machineEvents = r.machine.Events()
		defer r.machine.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-r.cmdCh:
			fn(ctx)
		case ev := <-machineEvents:
			r.onMachineEvent(ctx, ev)
		case in := <-r.tr.Receive():
			r.onInbound(ctx, in)
		}
	}
}

// do runs fn on the loop goroutine and waits for its result.
func (r *Runner) do(ctx context.Context, fn func(ctx context.Context) error) error {
	errCh := make(chan error, 1)
	wrapped := func(ctx context.Context) { errCh <- fn(ctx) }

	select {
	case r.cmdCh <- wrapped:
	case <-r.done:
		return game.ErrGameNotFound.WithDetailf("game loop stopped")
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn without waiting; errors are logged on the loop.
func (r *Runner) post(fn func(ctx context.Context) error) {
	wrapped := func(ctx context.Context) {
		if err := fn(ctx); err != nil {
			logging.FromContext(ctx).Warnf("deferred command failed, game %s: %v", r.gameID, err)
		}
	}

	select {
	case r.cmdCh <- wrapped:
	case <-r.done:
	}
}

func (r *Runner) note(ev event.Event) {
	select {
	case r.notes <- ev:
	default:
	}
}

// StartGame deals roles and words, then kicks the round lifecycle off.
// Host only.
func (r *Runner) StartGame(ctx context.Context) error {
	if r.role != RoleHost {
		return game.ErrInvalidGameState.WithDetailf("only the host can start the game")
	}
	return r.do(ctx, r.startGame)
}

func (r *Runner) startGame(ctx context.Context) error {
	s, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}
	if s.CurrentState.Kind != game.StateWaitingForPlayers {
		return game.ErrGameAlreadyStarted
	}
	if !s.CanStart() {
		return game.ErrInvalidPlayerCount.WithDetailf("%d of %d players", len(s.Players), s.GameConfig.MinPlayers)
	}

	category, err := r.pickCategory(s.GameConfig.WordCategories)
	if err != nil {
		return err
	}

	words := r.words.GameWords(category.ID, catalog.GridWordCount)
	if len(words) == 0 {
		return game.ErrNoWordsAvailable.WithDetailf("category %s", category.ID)
	}

	impostor := s.Players[fastrand.Uint32n(uint32(len(s.Players)))].ID
	s.AssignImpostor(impostor)
	s.SecretWords = words
	s.SelectedCategory = category
	s.CurrentRound = 1
	s.TotalRounds = 1

	updated, err := r.repo.UpdateSession(s)
	if err != nil {
		return err
	}

	r.tr.StopAdvertising()

	if err := r.machine.TransitionTo(ctx, game.GameStarted()); err != nil {
		return err
	}

	started := event.GameStarted(updated)
	r.broadcast(ctx, started)
	r.note(started)

	word, _ := updated.WordForRound(updated.CurrentRound)
	return r.machine.TransitionTo(ctx, game.WordReveal(word, category))
}

// pickCategory draws a random playable category from the host's picks.
func (r *Runner) pickCategory(ids []catalog.CategoryID) (catalog.Category, error) {
	var candidates []catalog.Category
	for _, id := range ids {
		category, ok := r.words.CategoryByID(id)
		if ok && category.HasEnoughWords() {
			candidates = append(candidates, category)
		}
	}
	if len(candidates) == 0 {
		return catalog.Category{}, game.ErrNoWordsAvailable
	}
	return candidates[fastrand.Uint32n(uint32(len(candidates)))], nil
}

// Vote casts this device's vote for the current round.
func (r *Runner) Vote(ctx context.Context, voted game.PlayerID) error {
	return r.do(ctx, func(ctx context.Context) error {
		s, err := r.repo.GameSession(r.gameID)
		if err != nil {
			return err
		}

		vote := game.NewVote(r.selfID, voted, s.CurrentRound)
		if r.role == RolePeer {
			return r.tr.Send(ctx, event.VoteCast(r.gameID, vote))
		}
		return r.castVote(ctx, vote)
	})
}

// drawingByteBudget caps an encoded drawing, leaving the rest of the
// frame payload limit to the event envelope around it.
const drawingByteBudget = transport.MaxPayloadBytes - 512

// Draw submits this device's strokes for the current round. A stroke
// list too large for one message loses its oldest paths.
func (r *Runner) Draw(ctx context.Context, paths []game.DrawingPath) error {
	return r.do(ctx, func(ctx context.Context) error {
		s, err := r.repo.GameSession(r.gameID)
		if err != nil {
			return err
		}

		drawing := game.NewDrawing(r.selfID, s.CurrentRound, paths).FitWithin(drawingByteBudget)
		if r.role == RolePeer {
			return r.tr.Send(ctx, event.PlayerDrawing(r.gameID, drawing))
		}
		return r.recordDrawing(ctx, drawing)
	})
}

// Guess submits the cornered impostor's word guess.
func (r *Runner) Guess(ctx context.Context, word string) error {
	return r.do(ctx, func(ctx context.Context) error {
		s, err := r.repo.GameSession(r.gameID)
		if err != nil {
			return err
		}

		secret, _ := s.WordForRound(s.CurrentRound)
		guess := game.NewImpostorGuess(r.selfID, word, secret, s.CurrentRound)
		if r.role == RolePeer {
			guess.IsCorrect = false // the host re-checks against its own word
			return r.tr.Send(ctx, event.ImpostorGuessSubmitted(r.gameID, guess))
		}
		return r.handleGuess(ctx, guess)
	})
}

// Kick removes a player from the lobby. Host only.
func (r *Runner) Kick(ctx context.Context, playerID game.PlayerID) error {
	if r.role != RoleHost {
		return game.ErrInvalidGameState.WithDetailf("only the host can kick")
	}
	return r.do(ctx, func(ctx context.Context) error {
		s, err := r.repo.RemovePlayer(r.gameID, playerID)
		if err != nil {
			return err
		}

		ev := event.PlayerKicked(r.gameID, playerID)
		r.broadcast(ctx, ev)
		r.note(ev)
		return r.checkDeparture(ctx, s)
	})
}

// Leave disconnects this device from the game.
func (r *Runner) Leave(ctx context.Context) error {
	return r.do(ctx, func(ctx context.Context) error {
		if r.role == RolePeer {
			_ = r.tr.Send(ctx, event.PlayerLeft(r.gameID, r.selfID))
			return r.tr.Close()
		}

		ev := event.ConnectionStatusChanged(r.gameID, event.StatusHostDisconnected)
		r.broadcast(ctx, ev)
		r.note(ev)
		return r.tr.Close()
	})
}

func (r *Runner) onMachineEvent(ctx context.Context, ev state.Event) {
	logger := logging.FromContext(ctx)

	switch ev.Kind {
	case state.EventStateChanged:
		st := r.machine.Current()
		if _, err := r.repo.UpdateGameState(r.gameID, st); err != nil {
			logger.Errorf("update game state, game %s: %v", r.gameID, err)
			return
		}

		out := event.GameStateChanged(r.gameID, st)
		r.broadcast(ctx, out)
		r.note(out)

		if st.Kind == game.StateRoundResult {
			time.AfterFunc(r.config.RoundResultDelay, func() {
				r.post(r.advanceRound)
			})
		}

	case state.EventTimerUpdate:
		out := event.TimerUpdate(r.gameID, ev.Remaining, ev.Phase)
		r.broadcast(ctx, out)
		r.note(out)

	case state.EventTimerExpired:
		if err := r.onPhaseExpired(ctx, ev.Phase); err != nil {
			logger.Errorf("phase %s expiry, game %s: %v", ev.Phase, r.gameID, err)
		}
	}
}

func (r *Runner) onPhaseExpired(ctx context.Context, phase game.TimedPhase) error {
	s, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}

	switch phase {
	case game.PhaseDiscussion:
		drawer := r.drawerForRound(s)
		return r.machine.TransitionTo(ctx, game.DrawingTurn(drawer, r.config.DrawingTimeSeconds))
	case game.PhaseDrawing:
		return r.machine.TransitionTo(ctx, game.Voting(s.GameConfig.VotingTimeSeconds))
	case game.PhaseVoting:
		return r.tallyVotes(ctx)
	case game.PhaseImpostorGuess:
		// Silence counts as a wrong guess.
		return r.resolveGuess(ctx, nil)
	}
	return nil
}

// drawerForRound rotates through alive players in join order.
func (r *Runner) drawerForRound(s game.GameSession) game.PlayerID {
	alive := s.AlivePlayers()
	if len(alive) == 0 {
		return s.ImpostorID
	}
	return alive[(s.CurrentRound-1)%len(alive)].ID
}

func (r *Runner) castVote(ctx context.Context, vote game.Vote) error {
	s, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}
	if s.CurrentState.Kind != game.StateVoting {
		return game.ErrInvalidGameState.WithDetailf("votes only count during voting")
	}
	if vote.Round != s.CurrentRound {
		return game.ErrInvalidGameState.WithDetailf("vote for round %d arrived in round %d", vote.Round, s.CurrentRound)
	}
	if voter, ok := s.FindPlayer(vote.VoterID); !ok || !voter.IsAlive() {
		return game.ErrPlayerNotFound.WithDetailf("voter %s", vote.VoterID)
	}
	if _, ok := s.FindPlayer(vote.VotedPlayerID); !ok {
		return game.ErrPlayerNotFound.WithDetailf("target %s", vote.VotedPlayerID)
	}

	updated, err := r.repo.SubmitVote(r.gameID, vote)
	if err != nil {
		return err
	}

	out := event.VoteCast(r.gameID, vote)
	r.broadcast(ctx, out)
	r.note(out)

	// Everyone alive has spoken; no point running the clock down.
	if updated.HasAllVoted(updated.CurrentRound) {
		return r.tallyVotes(ctx)
	}
	return nil
}

func (r *Runner) recordDrawing(ctx context.Context, drawing game.Drawing) error {
	s, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}
	if s.CurrentState.Kind != game.StateDrawing {
		return game.ErrDrawingTimeExpired
	}
	if drawing.Round != s.CurrentRound {
		return game.ErrInvalidGameState.WithDetailf("drawing for round %d arrived in round %d", drawing.Round, s.CurrentRound)
	}

	if _, err := r.repo.SubmitDrawing(r.gameID, drawing); err != nil {
		return err
	}

	out := event.PlayerDrawing(r.gameID, drawing)
	r.broadcast(ctx, out)
	r.note(out)
	return nil
}

func (r *Runner) handleGuess(ctx context.Context, guess game.ImpostorGuess) error {
	s, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}
	if s.CurrentState.Kind != game.StateImpostorGuessing {
		return game.ErrInvalidGameState.WithDetailf("no guess expected in %s", s.CurrentState.Kind)
	}
	if guess.PlayerID != s.ImpostorID {
		return game.ErrInvalidGameState.WithDetailf("only the impostor guesses")
	}

	secret, _ := s.WordForRound(s.CurrentRound)
	guess.IsCorrect = game.GuessMatches(guess.GuessedWord, secret)
	if _, err := r.repo.SubmitGuess(r.gameID, guess); err != nil {
		return err
	}

	out := event.ImpostorGuessSubmitted(r.gameID, guess)
	r.broadcast(ctx, out)
	r.note(out)

	return r.resolveGuess(ctx, &guess)
}

// tallyVotes closes the voting phase: a unique majority either corners
// the impostor or eliminates an ally, a tie lets everyone off.
func (r *Runner) tallyVotes(ctx context.Context) error {
	s, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}
	if s.CurrentState.Kind != game.StateVoting {
		return nil
	}

	votes := s.VotesForRound(s.CurrentRound)
	target, ok := game.MostVotedPlayer(votes)
	if !ok {
		return r.finishRound(ctx, game.RoundOutcome{
			Kind:     game.OutcomeNoMajority,
			Impostor: s.ImpostorID,
		})
	}

	if target == s.ImpostorID {
		return r.machine.TransitionTo(ctx, game.ImpostorGuessing(target, r.config.GuessTimeSeconds))
	}

	s.DecrementLives(target)
	if _, err := r.repo.UpdateSession(s); err != nil {
		return err
	}

	return r.finishRound(ctx, game.RoundOutcome{
		Kind:       game.OutcomeImpostorNotCaught,
		Impostor:   s.ImpostorID,
		Eliminated: target,
	})
}

// resolveGuess settles the cornered impostor's fate. A correct guess
// saves the life the vote would have taken; a wrong one or a timeout
// does not.
func (r *Runner) resolveGuess(ctx context.Context, guess *game.ImpostorGuess) error {
	s, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}
	if s.CurrentState.Kind != game.StateImpostorGuessing {
		return nil
	}

	saved := guess != nil && guess.IsCorrect
	if !saved {
		s.DecrementLives(s.ImpostorID)
		if _, err := r.repo.UpdateSession(s); err != nil {
			return err
		}
	}

	return r.finishRound(ctx, game.RoundOutcome{
		Kind:         game.OutcomeImpostorCaught,
		Impostor:     s.ImpostorID,
		Eliminated:   s.ImpostorID,
		SavedByGuess: saved,
	})
}

func (r *Runner) finishRound(ctx context.Context, outcome game.RoundOutcome) error {
	s, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}

	ended := event.RoundEnded(r.gameID, s.CurrentRound, outcome)
	r.broadcast(ctx, ended)
	r.note(ended)

	return r.machine.TransitionTo(ctx, game.RoundResult(outcome))
}

// advanceRound leaves the result screen: game over if a side has won,
// otherwise the next word is revealed.
func (r *Runner) advanceRound(ctx context.Context) error {
	s, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}
	if s.CurrentState.Kind != game.StateRoundResult {
		return nil
	}

	if winner, over := s.DetermineWinner(); over {
		return r.endGame(ctx, winner)
	}

	s.CurrentRound++
	s.TotalRounds = s.CurrentRound
	updated, err := r.repo.UpdateSession(s)
	if err != nil {
		return err
	}

	word, _ := updated.WordForRound(updated.CurrentRound)
	return r.machine.TransitionTo(ctx, game.WordReveal(word, updated.SelectedCategory))
}

func (r *Runner) endGame(ctx context.Context, winner game.Winner) error {
	s, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}

	if err := r.machine.TransitionTo(ctx, game.GameEnded(winner)); err != nil {
		return err
	}

	ended := event.GameEnded(r.gameID, winner)
	r.broadcast(ctx, ended)
	r.note(ended)

	r.writeStats(ctx, s, winner)
	return nil
}

func (r *Runner) writeStats(ctx context.Context, s game.GameSession, winner game.Winner) {
	if r.stats == nil {
		return
	}
	logger := logging.FromContext(ctx)

	for _, player := range s.Players {
		record := statModel.NewRecord(string(player.ID))
		record.WasImpostor = player.ID == s.ImpostorID
		record.ImpostorWon = winner.Kind == game.WinnerImpostor
		record.RoundsPlayed = s.CurrentRound
		record.Category = string(s.SelectedCategory.ID)
		record.PlayersNum = len(s.Players)
		if record.WasImpostor == record.ImpostorWon {
			record.Conclusion = statModel.ConclusionWon
		}

		if err := r.stats.Add(record); err != nil {
			logger.Warnf("stat record for %s: %v", player.ID, err)
		}
	}
}

func (r *Runner) broadcast(ctx context.Context, ev event.Event) {
	if err := r.tr.Broadcast(ctx, ev); err != nil {
		logging.FromContext(ctx).Warnf("broadcast %s, game %s: %v", ev.Type, r.gameID, err)
	}
}

func (r *Runner) onInbound(ctx context.Context, in transport.Inbound) {
	ev := in.Event
	if ev.GameID != "" && ev.GameID != r.gameID {
		return
	}

	var err error
	if r.role == RoleHost {
		err = r.onPeerEvent(ctx, ev)
	} else {
		err = r.onHostEvent(ctx, ev)
	}
	if err != nil {
		logging.FromContext(ctx).Debugf("inbound %s from %s rejected: %v", ev.Type, in.From, err)
	}
}

// onPeerEvent handles intents arriving at the host.
func (r *Runner) onPeerEvent(ctx context.Context, ev event.Event) error {
	switch ev.Type {
	case event.TypePlayerJoined:
		if ev.Player == nil {
			return game.ErrSerialization.WithDetailf("join without player payload")
		}
		return r.admitPlayer(ctx, *ev.Player)

	case event.TypePlayerLeft, event.TypePlayerDisconnected:
		return r.dropPlayer(ctx, ev.PlayerID)

	case event.TypeVoteCast:
		if ev.Vote == nil {
			return game.ErrSerialization.WithDetailf("vote without payload")
		}
		return r.castVote(ctx, *ev.Vote)

	case event.TypePlayerDrawing:
		if ev.Drawing == nil {
			return game.ErrSerialization.WithDetailf("drawing without payload")
		}
		return r.recordDrawing(ctx, *ev.Drawing)

	case event.TypeImpostorGuessSubmitted:
		if ev.Guess == nil {
			return game.ErrSerialization.WithDetailf("guess without payload")
		}
		return r.handleGuess(ctx, *ev.Guess)
	}
	return nil
}

// admitPlayer seats a joiner and hands them the current session in the
// same event the rest of the lobby sees.
func (r *Runner) admitPlayer(ctx context.Context, player game.Player) error {
	current, err := r.repo.GameSession(r.gameID)
	if err != nil {
		return err
	}

	// The joiner does not know the rules yet; the host deals lives.
	player.Lives = current.GameConfig.MaxLives
	player.IsImpostor = false
	player.IsHost = false

	s, err := r.repo.AddPlayer(r.gameID, player)
	if err != nil {
		return err
	}

	out := event.PlayerJoined(r.gameID, player)
	out.Session = &s
	r.broadcast(ctx, out)
	r.note(out)

	return r.advertise(ctx, s)
}

func (r *Runner) dropPlayer(ctx context.Context, playerID game.PlayerID) error {
	s, err := r.repo.RemovePlayer(r.gameID, playerID)
	if err != nil {
		return err
	}

	out := event.PlayerLeft(r.gameID, playerID)
	r.broadcast(ctx, out)
	r.note(out)

	if s.CurrentState.Kind == game.StateWaitingForPlayers {
		return r.advertise(ctx, s)
	}
	return r.checkDeparture(ctx, s)
}

// checkDeparture ends the game when a departure settles it, e.g. the
// impostor rage-quits or too few allies remain.
func (r *Runner) checkDeparture(ctx context.Context, s game.GameSession) error {
	if s.CurrentState.Kind == game.StateWaitingForPlayers || s.CurrentState.Kind == game.StateGameEnded {
		return nil
	}

	if _, ok := s.FindPlayer(s.ImpostorID); !ok {
		allies := s.AliveAllies()
		survivors := make([]game.PlayerID, 0, len(allies))
		for _, ally := range allies {
			survivors = append(survivors, ally.ID)
		}
		return r.endGame(ctx, game.AlliesWin(survivors))
	}

	if winner, over := s.DetermineWinner(); over {
		return r.endGame(ctx, winner)
	}
	return nil
}

func (r *Runner) advertise(ctx context.Context, s game.GameSession) error {
	return r.tr.Advertise(ctx, transport.Advertisement{
		GameID:      s.ID,
		HostName:    s.GameConfig.HostName,
		PlayerCount: len(s.Players),
		MaxPlayers:  s.GameConfig.MaxPlayers,
		StateKind:   s.CurrentState.Kind,
	})
}

// onHostEvent mirrors the host's announcements into the peer replica.
func (r *Runner) onHostEvent(ctx context.Context, ev event.Event) error {
	switch ev.Type {
	case event.TypeGameStarted, event.TypePlayerJoined:
		if ev.Session != nil {
			r.repo.InstallSession(*ev.Session)
		}

	case event.TypeGameStateChanged:
		if ev.State == nil {
			return game.ErrSerialization.WithDetailf("state change without payload")
		}
		if _, err := r.repo.UpdateGameState(r.gameID, *ev.State); err != nil {
			return err
		}

	case event.TypePlayerLeft:
		if _, err := r.repo.RemovePlayer(r.gameID, ev.PlayerID); err != nil {
			return err
		}

	case event.TypePlayerKicked:
		if ev.PlayerID == r.selfID {
			r.note(ev)
			_ = r.tr.Close()
			r.cancel()
			return nil
		}
		if _, err := r.repo.RemovePlayer(r.gameID, ev.PlayerID); err != nil {
			return err
		}

	case event.TypeVoteCast:
		if ev.Vote != nil && ev.Vote.VoterID != r.selfID {
			// Best effort: the replica tally is display only.
			_, _ = r.repo.SubmitVote(r.gameID, *ev.Vote)
		}

	case event.TypePlayerDrawing:
		if ev.Drawing != nil && ev.Drawing.PlayerID != r.selfID {
			_, _ = r.repo.SubmitDrawing(r.gameID, *ev.Drawing)
		}

	case event.TypeRoundEnded:
		if ev.Outcome != nil {
			if s, err := r.repo.GameSession(r.gameID); err == nil && ev.Round >= s.CurrentRound {
				if ev.Outcome.Eliminated != "" && !ev.Outcome.SavedByGuess {
					s.DecrementLives(ev.Outcome.Eliminated)
				}
				s.CurrentRound = ev.Round + 1
				s.TotalRounds = s.CurrentRound
				_, _ = r.repo.UpdateSession(s)
			}
		}

	case event.TypeConnectionStatusChanged:
		if ev.Status == event.StatusHostDisconnected {
			r.note(ev)
			_ = r.tr.Close()
			r.cancel()
			return nil
		}
	}

	r.note(ev)
	return nil
}
