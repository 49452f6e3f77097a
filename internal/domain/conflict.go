package domain

import "time"

// Resolution choices for a conflict.
const (
	// KeepLocal restores the local copy of a conflicted quote.
	KeepLocal = "local"

	// KeepServer confirms the server copy (the default the merge
	// already applied).
	KeepServer = "server"
)

// Conflict records a same-ID quote whose local and remote content
// diverged during a merge. The merge resolves it server-wins by
// default; the record stays outstanding until the user confirms or
// overrides that choice.
type Conflict struct {
	// ID is the shared remote identifier of the diverging records.
	ID string `json:"id"`

	// Local is the quote as it stood locally before the merge.
	Local Quote `json:"local"`

	// Server is the remote copy the merge applied.
	Server Quote `json:"server"`

	// DetectedAt is when the merge recorded the divergence.
	DetectedAt time.Time `json:"detectedAt"`
}

// ValidResolution reports whether keep names a known resolution choice.
func ValidResolution(keep string) bool {
	return keep == KeepLocal || keep == KeepServer
}
