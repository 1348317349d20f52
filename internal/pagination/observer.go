package pagination

import "sync"

// Observer tracks visibility of the single last-rendered result item. Exactly
// one target is watched at a time: Arm releases the previous target before
// watching the new one, so a notification for a stale list tail never fires.
// A successful notification disarms the observer until the next Arm, which
// coalesces rapid repeated visibility signals into one trigger.
type Observer struct {
	mu     sync.Mutex
	target string
	armed  bool
}

// NewObserver creates a disarmed observer.
func NewObserver() *Observer {
	return &Observer{}
}

// Arm watches targetID, releasing any previously watched target.
func (o *Observer) Arm(targetID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.target = targetID
	o.armed = targetID != ""
}

// Disarm stops watching entirely.
func (o *Observer) Disarm() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.target = ""
	o.armed = false
}

// Target returns the currently watched target ID, or "" when disarmed.
func (o *Observer) Target() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.armed {
		return ""
	}
	return o.target
}

// Notify reports a visibility signal for targetID. It returns true only when
// the observer is armed for exactly that target, and disarms itself before
// returning so duplicate signals are ignored until re-armed.
func (o *Observer) Notify(targetID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.armed || o.target != targetID {
		return false
	}
	o.target = ""
	o.armed = false
	return true
}
