package render

import "sync"

// Target is the single render slot boletas are rasterized from. Exactly
// one capture may hold the slot at a time; the serialization lock is the
// whole concurrency story, so callers never coordinate among themselves.
//
// The visible flag mirrors the off-screen life of the slot: it is raised
// only for the duration of a capture and must be lowered again on every
// exit path, including failures.
type Target struct {
	serial sync.Mutex // held for the duration of one capture

	mu      sync.Mutex
	mounted bool
	visible bool
}

// NewTarget returns a mounted, hidden render slot.
func NewTarget() *Target {
	return &Target{mounted: true}
}

// Mounted reports whether the slot is ready to capture from.
func (t *Target) Mounted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mounted
}

// Unmount takes the slot out of service; captures against an unmounted
// slot are skipped upstream.
func (t *Target) Unmount() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mounted = false
}

// Visible reports whether a capture currently holds the slot raised.
func (t *Target) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// acquire claims the slot for one capture and raises it. The returned
// release lowers the slot and frees it, and must run on every path.
func (t *Target) acquire() (release func()) {
	t.serial.Lock()
	t.mu.Lock()
	t.visible = true
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		t.visible = false
		t.mu.Unlock()
		t.serial.Unlock()
	}
}
