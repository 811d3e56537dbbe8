package chat

import (
	"fmt"
	"strconv"
	"strings"
)

// UserID identifies a marketplace user. Zero means "no user".
type UserID int64

func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}

// Key identifies the conversation between exactly two users: the smaller id
// first, joined with "-".
type Key string

// KeyFor returns the canonical key for the pair a, b regardless of order.
func KeyFor(a, b UserID) Key {
	if a > b {
		a, b = b, a
	}
	return Key(a.String() + "-" + b.String())
}

// ParseKey validates a key and returns it in canonical form.
func ParseKey(s string) (Key, error) {
	a, b, err := splitKey(s)
	if err != nil {
		return "", err
	}
	return KeyFor(a, b), nil
}

// Participants returns both user ids, smaller first.
func (k Key) Participants() (UserID, UserID, error) {
	a, b, err := splitKey(string(k))
	if err != nil {
		return 0, 0, err
	}
	if a > b {
		a, b = b, a
	}
	return a, b, nil
}

// Has reports whether u is one of the two participants.
func (k Key) Has(u UserID) bool {
	a, b, err := k.Participants()
	if err != nil {
		return false
	}
	return u == a || u == b
}

// Other returns the participant that is not self. Returns 0 if self is not
// part of the conversation.
func (k Key) Other(self UserID) UserID {
	a, b, err := k.Participants()
	if err != nil {
		return 0
	}
	switch self {
	case a:
		return b
	case b:
		return a
	default:
		return 0
	}
}

func splitKey(s string) (UserID, UserID, error) {
	left, right, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid conversation key %q: missing separator", s)
	}
	a, err := strconv.ParseInt(left, 10, 64)
	if err != nil || a <= 0 {
		return 0, 0, fmt.Errorf("invalid conversation key %q: bad user id %q", s, left)
	}
	b, err := strconv.ParseInt(right, 10, 64)
	if err != nil || b <= 0 {
		return 0, 0, fmt.Errorf("invalid conversation key %q: bad user id %q", s, right)
	}
	if a == b {
		return 0, 0, fmt.Errorf("invalid conversation key %q: participants must differ", s)
	}
	return UserID(a), UserID(b), nil
}
