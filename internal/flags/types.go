package flags

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("flag not found")

// KeySniperEnabled is the kill switch checked before every execution
const KeySniperEnabled = "sniper.enabled"

type Flag struct {
	Key       string    `json:"key"`
	Value     bool      `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
