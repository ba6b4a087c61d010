package utils

import "time"

// SaveState records an OAuth state value for ttl.
func SaveState(state string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	kvSet("oauth:state:"+state, "1", ttl)
}

// ConsumeState validates and removes a state value. A state is accepted once.
func ConsumeState(state string) bool {
	if state == "" {
		return false
	}
	_, ok := kvTake("oauth:state:" + state)
	return ok
}
