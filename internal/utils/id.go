package utils

import (
	"crypto/rand"
	"strconv"
	"time"
)

// roomIDAlphabet matches the room ids the landing page hands out:
// short, lowercase, easy to read aloud and retype.
const (
	roomIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	roomIDLength   = 8
)

// NewRoomID returns a random 8-character room identifier.
func NewRoomID() string {
	buf := make([]byte, roomIDLength)
	if _, err := rand.Read(buf); err != nil {
		// Fallback to timestamp if crypto/rand is unavailable.
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	for i, b := range buf {
		buf[i] = roomIDAlphabet[int(b)%len(roomIDAlphabet)]
	}
	return string(buf)
}
