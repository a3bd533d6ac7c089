package submission

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/peerreview/internal/ledger"
	"github.com/kingrea/peerreview/internal/rubric"
)

var fixedTime = time.Date(2025, 12, 18, 6, 30, 15, 123_000_000, time.UTC)

func testCatalog() rubric.Catalog {
	return rubric.Catalog{Criteria: []rubric.Criterion{
		{ID: "a", Category: "Clarity <intro>", Weight: 60},
		{ID: "b", Category: "Depth", Weight: 40},
	}}
}

func scoredLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New(testCatalog(), "")
	require.NoError(t, l.SetScore("a", 3))
	require.NoError(t, l.SetScore("b", 5))
	require.NoError(t, l.SetComment("b", "strong methods"))
	return l
}

func testFields() Fields {
	return Fields{Reviewer: "entry.1", Presenter: "entry.2", TotalScore: "entry.3", Details: "entry.4"}
}

func TestBuildPayloadFreezesTotalsAndDetails(t *testing.T) {
	p, err := BuildPayload("王小明", "陳大同", testCatalog(), scoredLedger(t), fixedTime)
	require.NoError(t, err)

	assert.Equal(t, "王小明", p.Reviewer)
	assert.Equal(t, "陳大同", p.Presenter)
	assert.Equal(t, "76.0", p.TotalString())
	assert.Equal(t, fixedTime, p.CreatedAt)

	var doc Details
	require.NoError(t, json.Unmarshal([]byte(p.Details), &doc))
	assert.Equal(t, "2025-12-18T06:30:15.123Z", doc.Timestamp)
	require.Len(t, doc.Details, 2)
	assert.Equal(t, Detail{Category: "Clarity <intro>", Score: 3, Comment: ledger.DefaultPlaceholder}, doc.Details[0])
	assert.Equal(t, Detail{Category: "Depth", Score: 5, Comment: "strong methods"}, doc.Details[1])

	assert.Contains(t, p.Details, "\n  \"details\": [", "details are indented by two spaces")
	assert.Contains(t, p.Details, "<intro>", "html characters are not escaped")
}

func TestEncodeDetailsLineSeparators(t *testing.T) {
	comment := "first\u2028second\u2029third"
	out, err := EncodeDetails(Details{
		Timestamp: "2025-12-18T06:30:15.123Z",
		Details:   []Detail{{Category: "Depth", Score: 4, Comment: comment}},
	})
	require.NoError(t, err)

	// encoding/json always escapes these two; the parsed text is unchanged.
	assert.Contains(t, out, `first\u2028second\u2029third`)
	var doc Details
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, comment, doc.Details[0].Comment)
}

func TestBuildPayloadRequiresEveryScore(t *testing.T) {
	l := ledger.New(testCatalog(), "")
	require.NoError(t, l.SetScore("a", 4))
	_, err := BuildPayload("r", "p", testCatalog(), l, fixedTime)
	assert.Error(t, err)
}

func TestPayloadValuesUseFieldIDs(t *testing.T) {
	p := Payload{Reviewer: "r", Presenter: "p", Total: 88.04, Details: "{}"}
	v := p.Values(testFields())
	assert.Equal(t, "r", v.Get("entry.1"))
	assert.Equal(t, "p", v.Get("entry.2"))
	assert.Equal(t, "88.0", v.Get("entry.3"))
	assert.Equal(t, "{}", v.Get("entry.4"))
	assert.Len(t, v, 4)
}

func newGateway(url string) *FormGateway {
	return NewFormGateway(Settings{Endpoint: url, Timeout: time.Second, Fields: testFields()},
		WithClock(func() time.Time { return fixedTime }))
}

func TestFormGatewayPostsForm(t *testing.T) {
	got := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		got <- r
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>thanks</html>"))
	}))
	t.Cleanup(srv.Close)

	p, err := BuildPayload("reviewer", "presenter", testCatalog(), scoredLedger(t), fixedTime)
	require.NoError(t, err)

	receipt, err := newGateway(srv.URL).Submit(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, receipt.StatusCode)
	assert.Equal(t, fixedTime, receipt.AcceptedAt)

	r := <-got
	assert.Equal(t, http.MethodPost, r.Method)
	assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
	assert.Equal(t, "reviewer", r.PostForm.Get("entry.1"))
	assert.Equal(t, "presenter", r.PostForm.Get("entry.2"))
	assert.Equal(t, "76.0", r.PostForm.Get("entry.3"))
	assert.Equal(t, p.Details, r.PostForm.Get("entry.4"))
}

func TestFormGatewayReportsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such form", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := newGateway(srv.URL).Submit(context.Background(), Payload{})
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusNotFound, rejected.StatusCode)
	assert.Contains(t, err.Error(), "404")
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestFormGatewayReportsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newGateway(url).Submit(context.Background(), Payload{})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestFormGatewayHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newGateway(srv.URL).Submit(ctx, Payload{})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestNewSettingsFallsBackToDefaults(t *testing.T) {
	s := NewSettings(" http://127.0.0.1:9/form ", 2*time.Second, Fields{Reviewer: "entry.1", Details: "  "})
	assert.Equal(t, "http://127.0.0.1:9/form", s.Endpoint)
	assert.Equal(t, 2*time.Second, s.Timeout)
	assert.Equal(t, DefaultMaxResponseBytes, s.MaxResponseBytes)
	assert.Equal(t, "entry.1", s.Fields.Reviewer)
	assert.Equal(t, DefaultPresenterField, s.Fields.Presenter)
	assert.Equal(t, DefaultDetailsField, s.Fields.Details)

	defaults := NewSettings("", 0, Fields{})
	assert.Equal(t, DefaultSettings(), defaults)
	assert.Equal(t, DefaultEndpoint, defaults.Endpoint)
	assert.Equal(t, DefaultTimeout, defaults.Timeout)
	assert.Equal(t, DefaultFields(), defaults.Fields)
}
