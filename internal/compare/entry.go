package compare

import (
	"encoding/json"
	"fmt"
)

// Status classifies one reconciled path.
type Status string

const (
	Unchanged Status = "unchanged"
	Modified  Status = "modified"
	Added     Status = "added"
	Deleted   Status = "deleted"
	Conflict  Status = "conflict"
)

// Statuses lists every status in report order.
var Statuses = []Status{Unchanged, Modified, Added, Deleted, Conflict}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// DiffEntry is the result for one relative path. PathA is empty when the path
// exists only on the right, PathB when it exists only on the left.
type DiffEntry struct {
	RelativePath string
	PathA        string
	PathB        string
	Status       Status
	IsDirectory  bool
}

type wireEntry struct {
	RelativePath string  `json:"relativePath"`
	PathA        *string `json:"pathA"`
	PathB        *string `json:"pathB"`
	Status       Status  `json:"status"`
	IsDirectory  bool    `json:"isDirectory"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// MarshalJSON encodes an absent side as null.
func (e DiffEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEntry{
		RelativePath: e.RelativePath,
		PathA:        optional(e.PathA),
		PathB:        optional(e.PathB),
		Status:       e.Status,
		IsDirectory:  e.IsDirectory,
	})
}

func (e *DiffEntry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	status, err := ParseStatus(string(w.Status))
	if err != nil {
		return err
	}

	*e = DiffEntry{
		RelativePath: w.RelativePath,
		Status:       status,
		IsDirectory:  w.IsDirectory,
	}
	if w.PathA != nil {
		e.PathA = *w.PathA
	}
	if w.PathB != nil {
		e.PathB = *w.PathB
	}
	return nil
}

// HasChanges reports whether any entry is not unchanged.
func HasChanges(entries []DiffEntry) bool {
	for _, e := range entries {
		if e.Status != Unchanged {
			return true
		}
	}
	return false
}
