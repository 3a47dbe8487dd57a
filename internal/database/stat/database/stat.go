package database

import (
	"encoding/json"
	"fmt"
	"sort"

	bolt "go.etcd.io/bbolt"

	"github.com/navidad-games/impostor/internal/cache"
	"github.com/navidad-games/impostor/internal/database"
	"github.com/navidad-games/impostor/internal/database/stat/model"
)

const prefix = "stat"

var ErrNotFound = fmt.Errorf("not found")

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) bucket(playerID string) []byte {
	return []byte(prefix + playerID)
}

// FetchByPlayer returns every recorded game for the player, oldest first.
func (db *DB) FetchByPlayer(playerID string) ([]model.Record, error) {
	bucket := db.bucket(playerID)
	if db.cache != nil {
		if v, ok := db.cache.Get(string(bucket)); ok {
			return v.([]model.Record), nil
		}
	}

	var list []model.Record
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return ErrNotFound
		}

		if err := b.ForEach(func(k, v []byte) error {
			var record model.Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("json unmarshal: %w", err)
			}
			list = append(list, record)
			return nil
		}); err != nil {
			return fmt.Errorf("bucket for each: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction: %w", err)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })

	if db.cache != nil {
		db.cache.Add(string(bucket), list)
	}

	return list, nil
}

// FetchProfile aggregates all of a player's records into a Profile.
func (db *DB) FetchProfile(playerID string) (model.Profile, error) {
	var profile model.Profile

	records, err := db.FetchByPlayer(playerID)
	if err != nil {
		return profile, fmt.Errorf("fetch by player: %w", err)
	}

	var rounds int
	categories := map[string]int{}
	for _, record := range records {
		profile.GamesPlayed++
		if record.Conclusion == model.ConclusionWon {
			profile.GamesWon++
		} else {
			profile.GamesLost++
		}
		if record.WasImpostor {
			profile.TimesImpostor++
			if record.ImpostorWon {
				profile.TimesImpostorWon++
			}
		}
		rounds += record.RoundsPlayed
		if record.Category != "" {
			categories[record.Category]++
		}
		if record.CreatedAt.After(profile.LastPlayed) {
			profile.LastPlayed = record.CreatedAt
		}
	}

	if profile.GamesPlayed > 0 {
		profile.AverageRounds = float64(rounds) / float64(profile.GamesPlayed)
	}

	for category := range categories {
		profile.FavoriteCategories = append(profile.FavoriteCategories, category)
	}
	sort.Slice(profile.FavoriteCategories, func(i, j int) bool {
		ci, cj := profile.FavoriteCategories[i], profile.FavoriteCategories[j]
		if categories[ci] != categories[cj] {
			return categories[ci] > categories[cj]
		}
		return ci < cj
	})

	return profile, nil
}

func (db *DB) Add(m model.Record) error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() //nolint

	bucket := db.bucket(m.PlayerID)

	b := tx.Bucket(bucket)
	if b == nil {
		bs, err := tx.CreateBucket(bucket)
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", m.PlayerID, err)
		}
		b = bs
	}

	binaryID, err := m.ID.MarshalBinary()
	if err != nil {
		return fmt.Errorf("uuid binary: %w", err)
	}

	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := b.Put(binaryID, bytes); err != nil {
		return fmt.Errorf("put to bucket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(string(bucket))
	}

	return nil
}
