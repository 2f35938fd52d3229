package model

// Task is a locally owned work item together with its last known
// remote state. The local row is authoritative for content and ordering;
// the Google* and Updated fields only track what the remote side last
// reported so the sync engine can detect conflicts.
type Task struct {
	ID    int64
	Title string
	Notes string
	// Due is a year-free date in "M/D" form ("12/25"). Empty means unset.
	// The year is inferred at sync boundaries.
	Due  string
	Pos  int
	Done bool

	// GoogleID is the remote identity. Empty until the first successful push.
	GoogleID string
	// Etag is the opaque remote version token. Informational only; conflict
	// resolution uses Updated, not etags.
	Etag string
	// Updated is the remote 'updated' timestamp (RFC3339). Empty means
	// unknown, which is distinct from very old.
	Updated string
	// Dirty marks local changes that have not been pushed yet.
	Dirty bool
}

// Linked reports whether the task has a remote counterpart.
func (t Task) Linked() bool {
	return t.GoogleID != ""
}
