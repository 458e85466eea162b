package render

import (
	"strings"
	"time"

	"github.com/kilupskalvis/commitview/internal/models"
)

// DateLayout is how commit dates are shown.
const DateLayout = "Jan 2, 2006, 15:04:05 MST"

// CommitHeader is the display form of a commit's metadata.
type CommitHeader struct {
	SHA           string
	Login         string
	AvatarURL     string
	Title         string
	Body          string
	AuthorName    string
	AuthoredAt    string
	CommitterName string
	Parents       string
}

// Header flattens c for display. A nil commit yields the zero header.
func Header(c *models.CommitDetail) CommitHeader {
	if c == nil {
		return CommitHeader{}
	}
	return CommitHeader{
		SHA:           c.SHA,
		Login:         c.Author.Login,
		AvatarURL:     c.Author.AvatarURL,
		Title:         c.Title(),
		Body:          c.Body(),
		AuthorName:    c.Commit.Author.Name,
		AuthoredAt:    FormatDate(c.Commit.Author.Date),
		CommitterName: c.Commit.Committer.Name,
		Parents:       strings.Join(c.ParentSHAs(), ", "),
	}
}

// FormatDate formats t with DateLayout; the zero time formats as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
