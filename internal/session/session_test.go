package session

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/peerreview/internal/rubric"
	"github.com/kingrea/peerreview/internal/submission"
)

var fixedTime = time.Date(2025, 12, 18, 9, 0, 0, 0, time.UTC)

func twoCriteria() rubric.Catalog {
	return rubric.Catalog{Criteria: []rubric.Criterion{
		{ID: "a", Category: "Question", Weight: 60},
		{ID: "b", Category: "Method", Weight: 40},
	}}
}

func newSession(opts ...Option) *Session {
	opts = append([]Option{WithClock(func() time.Time { return fixedTime })}, opts...)
	return New(twoCriteria(), opts...)
}

func grading(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := newSession(opts...)
	require.NoError(t, s.StartGrading("Ming", "Da-Tong"))
	return s
}

func TestLoginGateRejectsBlankNames(t *testing.T) {
	cases := []struct{ reviewer, presenter, field string }{
		{"", "p", "reviewer"},
		{"   ", "p", "reviewer"},
		{"r", "", "presenter"},
		{"r", "\t \n", "presenter"},
	}
	for _, tc := range cases {
		s := newSession()
		err := s.StartGrading(tc.reviewer, tc.presenter)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, tc.field, verr.Field)
		assert.Equal(t, PhaseLogin, s.Phase())
	}
}

func TestStartGradingKeepsRawNames(t *testing.T) {
	s := newSession()
	require.NoError(t, s.StartGrading(" Ming ", "Da-Tong"))
	assert.Equal(t, PhaseGrading, s.Phase())
	assert.Equal(t, " Ming ", s.Reviewer())
}

func TestCompletenessGateKeepsGrading(t *testing.T) {
	s := grading(t)
	require.NoError(t, s.Rate("a", 4))
	require.NoError(t, s.Comment("b", "lots of comment but no score"))

	_, err := s.Submit()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "Method")
	assert.Equal(t, PhaseGrading, s.Phase())

	v, ok := s.Ledger().Score("a")
	assert.True(t, ok)
	assert.Equal(t, 4, v, "validation failure loses no state")
}

func TestSubmitFreezesPayload(t *testing.T) {
	s := grading(t)
	require.NoError(t, s.Rate("a", 3))
	require.NoError(t, s.Rate("b", 5))

	p, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, PhaseSubmitting, s.Phase())
	assert.Equal(t, "Ming", p.Reviewer)
	assert.Equal(t, "Da-Tong", p.Presenter)
	assert.Equal(t, "76.0", p.TotalString())
	assert.Equal(t, fixedTime, p.CreatedAt)
	assert.Equal(t, p, s.Payload())
	assert.Equal(t, 1, s.Attempts())

	var doc submission.Details
	require.NoError(t, json.Unmarshal([]byte(p.Details), &doc))
	assert.Len(t, doc.Details, 2)

	assert.ErrorIs(t, s.Rate("a", 1), ErrWrongPhase, "ledger is frozen while submitting")
}

func TestCompleteRecordsOutcome(t *testing.T) {
	s := grading(t)
	require.NoError(t, s.Rate("a", 1))
	require.NoError(t, s.Rate("b", 1))
	_, err := s.Submit()
	require.NoError(t, err)

	receipt := submission.Receipt{StatusCode: 200, AcceptedAt: fixedTime}
	require.NoError(t, s.Complete(receipt, nil))
	assert.Equal(t, PhaseResult, s.Phase())
	assert.True(t, s.Outcome().Accepted())
	assert.Equal(t, receipt, s.Outcome().Receipt)
	assert.InDelta(t, 20.0, s.Payload().Total, 1e-9)

	_, err = s.Retry()
	assert.ErrorIs(t, err, ErrWrongPhase, "accepted submissions are not retried")
}

func TestFailedSubmissionRetryAndRevise(t *testing.T) {
	s := grading(t)
	require.NoError(t, s.Rate("a", 5))
	require.NoError(t, s.Rate("b", 5))
	first, err := s.Submit()
	require.NoError(t, err)

	failure := &submission.RejectedError{StatusCode: 404}
	require.NoError(t, s.Complete(submission.Receipt{}, failure))
	assert.False(t, s.Outcome().Accepted())
	assert.True(t, errors.Is(s.Outcome().Err, failure))

	again, err := s.Retry()
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, PhaseSubmitting, s.Phase())
	assert.Equal(t, 2, s.Attempts())

	require.NoError(t, s.Complete(submission.Receipt{}, failure))
	require.NoError(t, s.Revise())
	assert.Equal(t, PhaseGrading, s.Phase())
	v, _ := s.Ledger().Score("a")
	assert.Equal(t, 5, v)
}

func TestBackToLoginKeepsScores(t *testing.T) {
	s := grading(t)
	require.NoError(t, s.Rate("a", 2))
	require.NoError(t, s.BackToLogin())
	assert.Equal(t, PhaseLogin, s.Phase())

	require.NoError(t, s.StartGrading("Ming", "Someone Else"))
	v, ok := s.Ledger().Score("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, "Someone Else", s.Presenter())
}

func completeReview(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.Rate("a", 4))
	require.NoError(t, s.Rate("b", 4))
	require.NoError(t, s.Comment("a", "nice"))
	_, err := s.Submit()
	require.NoError(t, err)
	require.NoError(t, s.Complete(submission.Receipt{StatusCode: 200}, nil))
}

func TestResetClearsPerReviewState(t *testing.T) {
	s := grading(t)
	completeReview(t, s)

	require.NoError(t, s.Reset())
	assert.Equal(t, PhaseLogin, s.Phase())
	assert.Equal(t, "Ming", s.Reviewer(), "default policy keeps the reviewer")
	assert.Empty(t, s.Presenter())
	assert.Equal(t, 0, s.Ledger().Scored())
	_, ok := s.Ledger().Comment("a")
	assert.False(t, ok)
	assert.Equal(t, submission.Payload{}, s.Payload())

	require.NoError(t, s.StartGrading(s.Reviewer(), "Next"))
	assert.False(t, s.Ledger().IsComplete(s.Catalog()))
}

func TestResetClearReviewerPolicy(t *testing.T) {
	s := grading(t, WithResetPolicy(ClearReviewer))
	completeReview(t, s)
	require.NoError(t, s.Reset())
	assert.Empty(t, s.Reviewer())
}

func TestResetOnlyFromResult(t *testing.T) {
	s := grading(t)
	assert.ErrorIs(t, s.Reset(), ErrWrongPhase)
	assert.ErrorIs(t, s.Complete(submission.Receipt{}, nil), ErrWrongPhase)
	assert.ErrorIs(t, newSession().BackToLogin(), ErrWrongPhase)
}

func TestPlaceholderOption(t *testing.T) {
	s := grading(t, WithPlaceholder("n/a"))
	require.NoError(t, s.Rate("a", 3))
	require.NoError(t, s.Rate("b", 3))
	p, err := s.Submit()
	require.NoError(t, err)
	assert.Contains(t, p.Details, `"comment": "n/a"`)
}

func TestStepStartsAtMinimum(t *testing.T) {
	s := grading(t)
	v, err := s.Step("a", 1)
	require.NoError(t, err)
	assert.Equal(t, rubric.MinScore, v)
	v, err = s.Step("a", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
