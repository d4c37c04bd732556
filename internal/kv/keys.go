package kv

import "strconv"

const (
	// CurrentUserKey holds the persisted session user.
	CurrentUserKey = "currentUser"
	// ProgressKeyPrefix namespaces per-user progress entries.
	ProgressKeyPrefix = "userProgress_"
)

// ProgressKey returns the key holding userID's progress list, e.g. "userProgress_2".
func ProgressKey(userID int) string {
	return ProgressKeyPrefix + strconv.Itoa(userID)
}

// ParseProgressKey extracts the user id from a progress key.
func ParseProgressKey(key string) (int, bool) {
	if len(key) <= len(ProgressKeyPrefix) || key[:len(ProgressKeyPrefix)] != ProgressKeyPrefix {
		return 0, false
	}
	id, err := strconv.Atoi(key[len(ProgressKeyPrefix):])
	if err != nil {
		return 0, false
	}
	return id, true
}
