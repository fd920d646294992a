package input

import "github.com/verte-zerg/keyzen/internal/model"

// Releaser synthesizes key-ups. Terminals report presses only, so a key counts as
// held until no press has been seen for the hold time. Each press re-arms the key.
type Releaser struct {
	next  uint64
	armed map[model.KeyIdentity]uint64
}

// NewReleaser returns an empty Releaser.
func NewReleaser() *Releaser {
	return &Releaser{armed: map[model.KeyIdentity]uint64{}}
}

// Arm records a press of key and returns the token to pass to Expire.
func (r *Releaser) Arm(key model.KeyIdentity) uint64 {
	r.next++
	r.armed[key] = r.next
	return r.next
}

// Expire reports whether token is still the latest press of key, and forgets it if so.
func (r *Releaser) Expire(key model.KeyIdentity, token uint64) bool {
	if r.armed[key] != token {
		return false
	}
	delete(r.armed, key)
	return true
}
