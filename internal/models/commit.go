// Package models holds the data types shared by the fetcher, the renderer
// and the front ends.
package models

import (
	"strings"
	"time"
)

// CommitDetail is the commit metadata returned by the backend API.
type CommitDetail struct {
	SHA     string      `json:"sha"`
	Author  Account     `json:"author"`
	Commit  CommitInfo  `json:"commit"`
	Parents []ParentRef `json:"parents"`
}

// Account is the hosting-service user attached to a commit.
type Account struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// CommitInfo is the git-level part of a commit.
type CommitInfo struct {
	Author    Signature `json:"author"`
	Committer Signature `json:"committer"`
	Message   string    `json:"message"`
}

// Signature is a name and timestamp pair.
type Signature struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// ParentRef points at a parent commit.
type ParentRef struct {
	SHA string `json:"sha"`
}

// Title returns the first line of the commit message.
func (c *CommitDetail) Title() string {
	title, _, _ := strings.Cut(c.Commit.Message, "\n")
	return title
}

// Body returns everything after the first line of the commit message.
func (c *CommitDetail) Body() string {
	_, body, _ := strings.Cut(c.Commit.Message, "\n")
	return body
}

// ParentSHAs returns the parent hashes in order.
func (c *CommitDetail) ParentSHAs() []string {
	shas := make([]string, 0, len(c.Parents))
	for _, p := range c.Parents {
		shas = append(shas, p.SHA)
	}
	return shas
}
