package match

import (
	"time"

	"github.com/navidad-games/impostor/internal/database"
)

type Config struct {
	// Logging at debug level, including transport frames
	Debug bool `envconfig:"IMPOSTOR_DEBUG" default:"false"`

	// Number of items in the stat cache
	CacheSize int `envconfig:"IMPOSTOR_CACHE_SIZE" default:"1024"`

	// Name shown in advertisements when hosting
	HostName string `envconfig:"IMPOSTOR_HOST_NAME" default:"Anfitrión"`

	// Seconds a drawer gets before the canvas locks
	DrawingTimeSeconds int `envconfig:"IMPOSTOR_DRAWING_TIME" default:"90"`

	// Seconds the cornered impostor gets to guess the word
	GuessTimeSeconds int `envconfig:"IMPOSTOR_GUESS_TIME" default:"30"`

	// Pause on the round result screen before the next round starts
	RoundResultDelay time.Duration `envconfig:"IMPOSTOR_ROUND_RESULT_DELAY" default:"5s"`

	// Countdown resolution; lowered only in tests
	TickInterval time.Duration `envconfig:"IMPOSTOR_TICK_INTERVAL" default:"1s"`

	Db database.Config
}
