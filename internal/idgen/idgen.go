// Package idgen produces record identifiers.
//
// The local scheme is epoch milliseconds followed by a short random base-36
// suffix. It is unique enough for a single device but not collision-free
// under heavy concurrency; use the uuid scheme when records are synced
// between devices.
package idgen

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Func returns a new identifier. now is the generation instant.
type Func func(now time.Time) string

const (
	SchemeLocal = "local"
	SchemeUUID  = "uuid"
)

const (
	suffixLen = 9
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Local returns "<epoch ms><9 base-36 chars>".
func Local(now time.Time) string {
	var suffix [suffixLen]byte
	for i := range suffix {
		suffix[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + string(suffix[:])
}

// UUID returns a random version 4 UUID. now is ignored.
func UUID(time.Time) string {
	return uuid.New().String()
}

// ForScheme returns the generator for the named scheme. An empty name
// selects the local scheme.
func ForScheme(name string) (Func, error) {
	switch name {
	case "", SchemeLocal:
		return Local, nil
	case SchemeUUID:
		return UUID, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q", name)
	}
}
