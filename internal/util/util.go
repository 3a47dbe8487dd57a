package util

import (
	"time"
)

func Sleep(t time.Duration) {
	timer := time.NewTimer(t)
	defer timer.Stop()
	<-timer.C
}

// Plural picks the Spanish form for a count.
func Plural(number int, one, many string) string {
	if number == 1 || number == -1 {
		return one
	}
	return many
}
