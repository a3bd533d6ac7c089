// Package ledger keeps one reviewer's scores and comments for a single presenter.
package ledger

import (
	"errors"
	"fmt"

	"github.com/kingrea/peerreview/internal/rubric"
)

// DefaultPlaceholder is reported for criteria the reviewer left without a comment.
const DefaultPlaceholder = "無評語"

var (
	// ErrInvalidCriterion is returned for identifiers the catalog does not define.
	ErrInvalidCriterion = errors.New("ledger: unknown criterion")
	// ErrOutOfRange is returned for scores outside [rubric.MinScore, rubric.MaxScore].
	ErrOutOfRange = errors.New("ledger: score out of range")
)

// Ledger maps criterion ids to scores and comments.
type Ledger struct {
	catalog     rubric.Catalog
	placeholder string
	scores      map[string]int
	comments    map[string]string
}

// New creates an empty ledger bound to catalog. An empty placeholder falls
// back to DefaultPlaceholder.
func New(catalog rubric.Catalog, placeholder string) *Ledger {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Ledger{
		catalog:     catalog,
		placeholder: placeholder,
		scores:      map[string]int{},
		comments:    map[string]string{},
	}
}

// SetScore records value for the criterion, replacing any earlier rating.
func (l *Ledger) SetScore(id string, value int) error {
	if !l.catalog.Has(id) {
		return fmt.Errorf("%w: %q", ErrInvalidCriterion, id)
	}
	if value < rubric.MinScore || value > rubric.MaxScore {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrOutOfRange, value, rubric.MinScore, rubric.MaxScore)
	}
	l.scores[id] = value
	return nil
}

// Adjust moves a score by delta, clamped to the valid range. An unscored
// criterion starts from the lowest score.
func (l *Ledger) Adjust(id string, delta int) (int, error) {
	if !l.catalog.Has(id) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCriterion, id)
	}
	current, ok := l.scores[id]
	next := rubric.MinScore
	if ok {
		next = current + delta
	}
	if next < rubric.MinScore {
		next = rubric.MinScore
	}
	if next > rubric.MaxScore {
		next = rubric.MaxScore
	}
	l.scores[id] = next
	return next, nil
}

// SetComment records free text for the criterion.
func (l *Ledger) SetComment(id, text string) error {
	if !l.catalog.Has(id) {
		return fmt.Errorf("%w: %q", ErrInvalidCriterion, id)
	}
	l.comments[id] = text
	return nil
}

// Score returns the rating for id, if one was given.
func (l *Ledger) Score(id string) (int, bool) {
	v, ok := l.scores[id]
	return v, ok
}

// Comment returns the stored comment for id.
func (l *Ledger) Comment(id string) (string, bool) {
	v, ok := l.comments[id]
	return v, ok
}

// CommentOrDefault returns the stored comment, or the placeholder when the
// comment is absent or empty.
func (l *Ledger) CommentOrDefault(id string) string {
	if v, ok := l.comments[id]; ok && v != "" {
		return v
	}
	return l.placeholder
}

// Placeholder is the text used for missing comments.
func (l *Ledger) Placeholder() string {
	return l.placeholder
}

// IsComplete reports whether every criterion in catalog has a score.
func (l *Ledger) IsComplete(catalog rubric.Catalog) bool {
	return len(l.Missing(catalog)) == 0
}

// Missing lists unscored criteria in catalog order.
func (l *Ledger) Missing(catalog rubric.Catalog) []rubric.Criterion {
	var missing []rubric.Criterion
	for _, crit := range catalog.Criteria {
		if _, ok := l.scores[crit.ID]; !ok {
			missing = append(missing, crit)
		}
	}
	return missing
}

// Scored counts rated criteria.
func (l *Ledger) Scored() int {
	return len(l.scores)
}

// Reset drops every score and comment.
func (l *Ledger) Reset() {
	l.scores = map[string]int{}
	l.comments = map[string]string{}
}
