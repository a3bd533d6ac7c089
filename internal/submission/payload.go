package submission

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kingrea/peerreview/internal/rubric"
	"github.com/kingrea/peerreview/internal/scoring"
)

// timestampLayout matches JavaScript's Date.toISOString output.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Ledger is the view of recorded scores and comments a payload is built from.
type Ledger interface {
	Score(id string) (int, bool)
	CommentOrDefault(id string) string
}

// Detail is one criterion's entry in the details document.
type Detail struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	Comment  string `json:"comment"`
}

// Details is the JSON document sent in the details field.
type Details struct {
	Details   []Detail `json:"details"`
	Timestamp string   `json:"timestamp"`
}

// CollectDetails builds one entry per criterion, in catalog order.
func CollectDetails(catalog rubric.Catalog, l Ledger, at time.Time) Details {
	out := Details{
		Details:   make([]Detail, 0, catalog.Len()),
		Timestamp: at.UTC().Format(timestampLayout),
	}
	for _, crit := range catalog.Criteria {
		score, _ := l.Score(crit.ID)
		out.Details = append(out.Details, Detail{
			Category: crit.Category,
			Score:    score,
			Comment:  l.CommentOrDefault(crit.ID),
		})
	}
	return out
}

// EncodeDetails renders the details document as indented JSON.
func EncodeDetails(d Details) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return "", fmt.Errorf("submission: encode details: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Fields holds the collector's identifiers for the four payload values.
type Fields struct {
	Reviewer   string
	Presenter  string
	TotalScore string
	Details    string
}

// Payload is the frozen content of one submission.
type Payload struct {
	Reviewer  string
	Presenter string
	Total     float64
	Details   string
	CreatedAt time.Time
}

// BuildPayload freezes names, the weighted total and the details document.
// Every criterion must already be scored.
func BuildPayload(reviewer, presenter string, catalog rubric.Catalog, l Ledger, at time.Time) (Payload, error) {
	for _, crit := range catalog.Criteria {
		if _, ok := l.Score(crit.ID); !ok {
			return Payload{}, fmt.Errorf("submission: criterion %q has no score", crit.ID)
		}
	}
	details, err := EncodeDetails(CollectDetails(catalog, l, at))
	if err != nil {
		return Payload{}, err
	}
	return Payload{
		Reviewer:  reviewer,
		Presenter: presenter,
		Total:     scoring.ComputeTotal(catalog, l),
		Details:   details,
		CreatedAt: at,
	}, nil
}

// TotalString formats the total with one decimal place.
func (p Payload) TotalString() string {
	return scoring.FormatTotal(p.Total)
}

// Values maps the payload onto the collector's form fields.
func (p Payload) Values(f Fields) url.Values {
	v := url.Values{}
	v.Set(f.Reviewer, p.Reviewer)
	v.Set(f.Presenter, p.Presenter)
	v.Set(f.TotalScore, p.TotalString())
	v.Set(f.Details, p.Details)
	return v
}
