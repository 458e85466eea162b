package models

// DiffPayload is the file-level diff returned by the backend API.
type DiffPayload struct {
	Files []FileDiff `json:"files"`
}

// FileDiff is the patch for a single file. Collapsed is view state and is
// never read from or written to the API.
type FileDiff struct {
	Filename  string `json:"filename"`
	Patch     string `json:"patch"`
	Collapsed bool   `json:"-"`
}

// Clone returns a copy with its own Files slice.
func (d *DiffPayload) Clone() *DiffPayload {
	if d == nil {
		return nil
	}
	out := &DiffPayload{}
	if d.Files != nil {
		out.Files = make([]FileDiff, len(d.Files))
		copy(out.Files, d.Files)
	}
	return out
}
