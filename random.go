package utils

import (
	"github.com/google/uuid"
)

// MustUUIDv7 returns a new time-ordered UUID string. It panics if the system
// random source fails.
func MustUUIDv7() string {
	vid, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return vid.String()
}
