package game

import (
	"sort"
	"strings"
	"time"
)

type Vote struct {
	VoterID       PlayerID  `json:"voterId"`
	VotedPlayerID PlayerID  `json:"votedPlayerId"`
	Round         int       `json:"round"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewVote(voter, voted PlayerID, round int) Vote {
	return Vote{VoterID: voter, VotedPlayerID: voted, Round: round, Timestamp: time.Now()}
}

// IsSelfVote is legal but flagged for display.
func (v Vote) IsSelfVote() bool {
	return v.VoterID == v.VotedPlayerID
}

type ImpostorGuess struct {
	PlayerID    PlayerID  `json:"playerId"`
	GuessedWord string    `json:"guessedWord"`
	IsCorrect   bool      `json:"isCorrect"`
	Round       int       `json:"round"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewImpostorGuess(player PlayerID, guessed, secret string, round int) ImpostorGuess {
	return ImpostorGuess{
		PlayerID:    player,
		GuessedWord: guessed,
		IsCorrect:   GuessMatches(guessed, secret),
		Round:       round,
		Timestamp:   time.Now(),
	}
}

// GuessMatches compares case-insensitively after trimming.
func GuessMatches(guessed, secret string) bool {
	return strings.EqualFold(strings.TrimSpace(guessed), strings.TrimSpace(secret))
}

// CountVotes tallies votes per target.
func CountVotes(votes []Vote) map[PlayerID]int {
	counts := make(map[PlayerID]int, len(votes))
	for _, vote := range votes {
		counts[vote.VotedPlayerID]++
	}
	return counts
}

// MostVotedPlayer returns the unique player with the maximum vote count.
// No votes, or a tie for the maximum, yields ok == false.
func MostVotedPlayer(votes []Vote) (PlayerID, bool) {
	counts := CountVotes(votes)

	var best PlayerID
	var max, atMax int
	for player, count := range counts {
		if count > max {
			max, atMax, best = count, 1, player
		} else if count == max {
			atMax++
		}
	}

	if max == 0 || atMax > 1 {
		return "", false
	}
	return best, true
}

// HasTie reports whether two or more players share the maximum count.
func HasTie(votes []Vote) bool {
	counts := CountVotes(votes)

	var max, atMax int
	for _, count := range counts {
		if count > max {
			max, atMax = count, 1
		} else if count == max {
			atMax++
		}
	}
	return max > 0 && atMax > 1
}

// VoteSummary is one row of the per-player tally for result display.
type VoteSummary struct {
	PlayerID   PlayerID `json:"playerId"`
	VoteCount  int      `json:"voteCount"`
	Percentage float64  `json:"percentage"`
}

// SummarizeVotes lists per-player counts sorted by count descending.
func SummarizeVotes(votes []Vote) []VoteSummary {
	if len(votes) == 0 {
		return nil
	}

	counts := CountVotes(votes)
	out := make([]VoteSummary, 0, len(counts))
	for player, count := range counts {
		out = append(out, VoteSummary{
			PlayerID:   player,
			VoteCount:  count,
			Percentage: float64(count) / float64(len(votes)) * 100,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].VoteCount != out[j].VoteCount {
			return out[i].VoteCount > out[j].VoteCount
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
