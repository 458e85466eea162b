package models

import (
	"fmt"
	"strings"
)

// CommitIdentity identifies which commit to load.
type CommitIdentity struct {
	Owner      string `toml:"owner" json:"owner"`
	Repository string `toml:"repository" json:"repository"`
	CommitSHA  string `toml:"sha" json:"sha"`
}

// Validate returns an error if any segment is empty or contains a path separator.
func (id CommitIdentity) Validate() error {
	segments := []struct{ name, value string }{
		{"owner", id.Owner},
		{"repository", id.Repository},
		{"commit", id.CommitSHA},
	}
	for _, seg := range segments {
		name, v := seg.name, seg.value
		if v == "" {
			return fmt.Errorf("%s is required", name)
		}
		if strings.ContainsAny(v, "/\\") || v == "." || v == ".." {
			return fmt.Errorf("invalid %s: %q", name, v)
		}
	}
	return nil
}

// ShortSHA returns a shortened commit SHA (first 7 characters)
func (id CommitIdentity) ShortSHA() string {
	if len(id.CommitSHA) > 7 {
		return id.CommitSHA[:7]
	}
	return id.CommitSHA
}

func (id CommitIdentity) String() string {
	return fmt.Sprintf("%s/%s@%s", id.Owner, id.Repository, id.ShortSHA())
}

// PagePath is the viewer route for this commit.
func (id CommitIdentity) PagePath() string {
	return fmt.Sprintf("/repositories/%s/%s/commit/%s", id.Owner, id.Repository, id.CommitSHA)
}
