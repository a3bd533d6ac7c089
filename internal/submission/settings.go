package submission

import (
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the Google Forms collector the course uses.
	DefaultEndpoint = "https://docs.google.com/forms/d/e/1FAIpQLSfAAhNDUlwnqoyTNA6NcXG78UwcLT1mW90ln4zzFawOzheLgQ/formResponse"
	// DefaultTimeout bounds a single submission round trip.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxResponseBytes caps how much of the collector's reply is drained.
	DefaultMaxResponseBytes int64 = 1 << 20

	// Field ids assigned by the collector form.
	DefaultReviewerField   = "entry.1730151782"
	DefaultPresenterField  = "entry.1088651803"
	DefaultTotalScoreField = "entry.823041206"
	DefaultDetailsField    = "entry.1311753104"
)

// Settings captures runtime configuration for the form gateway.
type Settings struct {
	Endpoint         string
	Timeout          time.Duration
	MaxResponseBytes int64
	Fields           Fields
}

// DefaultFields returns the field ids of the course form.
func DefaultFields() Fields {
	return Fields{
		Reviewer:   DefaultReviewerField,
		Presenter:  DefaultPresenterField,
		TotalScore: DefaultTotalScoreField,
		Details:    DefaultDetailsField,
	}
}

// DefaultSettings targets the course form.
func DefaultSettings() Settings {
	return NewSettings(DefaultEndpoint, DefaultTimeout, DefaultFields())
}

// NewSettings builds Settings, falling back to the defaults for blank values.
func NewSettings(endpoint string, timeout time.Duration, fields Fields) Settings {
	settings := Settings{
		Endpoint:         endpoint,
		Timeout:          timeout,
		MaxResponseBytes: DefaultMaxResponseBytes,
		Fields:           fields,
	}
	settings.normalize()
	return settings
}

func (s *Settings) normalize() {
	if s == nil {
		return
	}
	s.Endpoint = strings.TrimSpace(s.Endpoint)
	if s.Endpoint == "" {
		s.Endpoint = DefaultEndpoint
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.MaxResponseBytes <= 0 {
		s.MaxResponseBytes = DefaultMaxResponseBytes
	}
	fallback := func(v *string, def string) {
		*v = strings.TrimSpace(*v)
		if *v == "" {
			*v = def
		}
	}
	fallback(&s.Fields.Reviewer, DefaultReviewerField)
	fallback(&s.Fields.Presenter, DefaultPresenterField)
	fallback(&s.Fields.TotalScore, DefaultTotalScoreField)
	fallback(&s.Fields.Details, DefaultDetailsField)
}
