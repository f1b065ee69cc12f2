package zammad

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dp-coding/zammad-tui/internal/config"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type errorTripper struct {
	err error
}

func (t errorTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, t.err
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestService(t *testing.T, rt http.RoundTripper) *Service {
	t.Helper()
	store := config.NewMemory()
	require.NoError(t, store.SetCredentials("https://example.zammad.com", "secret"))
	svc := NewService(store)
	svc.client = &http.Client{Transport: rt}
	return svc
}

func TestIsConfigured(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		token string
		want  bool
	}{
		{"both set", "https://example.zammad.com", "secret", true},
		{"missing token", "https://example.zammad.com", "", false},
		{"missing url", "", "secret", false},
		{"nothing set", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := config.NewMemory()
			require.NoError(t, store.SetCredentials(tt.url, tt.token))
			assert.Equal(t, tt.want, NewService(store).IsConfigured())
		})
	}
}

func TestInitializeConfigures(t *testing.T) {
	svc := NewService(config.NewMemory())
	require.False(t, svc.IsConfigured())
	require.NoError(t, svc.Initialize("https://example.zammad.com", "secret"))
	assert.True(t, svc.IsConfigured())
}

func TestUnconfiguredFailsFastWithoutNetworkCall(t *testing.T) {
	calls := 0
	svc := NewService(config.NewMemory())
	svc.client = &http.Client{Transport: roundTripFunc(func(*http.Request) *http.Response {
		calls++
		return jsonResponse(http.StatusOK, "{}")
	})}

	_, err := svc.TicketsForCurrentUser()

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Zero(t, calls, "no network call may be attempted while unconfigured")
}

func TestAuthorizationHeader(t *testing.T) {
	var header string
	svc := newTestService(t, roundTripFunc(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `{"id":1,"login":"agent"}`)
	}))
	svc.client.Transport = &authTransport{token: "secret", next: roundTripFunc(func(req *http.Request) *http.Response {
		header = req.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `{"id":1,"login":"agent"}`)
	})}

	_, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "Token token=secret", header)
}

func TestCurrentUserEmptyBody(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(*http.Request) *http.Response {
		return jsonResponse(http.StatusOK, "null")
	}))

	_, err := svc.CurrentUser()

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
}

func TestCurrentUserTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	svc := newTestService(t, errorTripper{err: cause})

	_, err := svc.CurrentUser()

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
	assert.ErrorContains(t, err, "connection refused")
}

func TestUserByIDCaching(t *testing.T) {
	calls := 0
	svc := newTestService(t, roundTripFunc(func(req *http.Request) *http.Response {
		calls++
		require.Equal(t, "/api/v1/users/42", req.URL.Path)
		return jsonResponse(http.StatusOK, `{"id":42,"login":"agent","firstname":"Jo","lastname":"Doe"}`)
	}))

	first, err := svc.UserByID(42)
	require.NoError(t, err)
	second, err := svc.UserByID(42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second lookup must be served from the cache")

	svc.ClearUserCache()
	_, err = svc.UserByID(42)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "clearing the cache must force a refetch")
}

func TestTicketTagsCaching(t *testing.T) {
	calls := 0
	svc := newTestService(t, roundTripFunc(func(req *http.Request) *http.Response {
		calls++
		require.Equal(t, "/api/v1/tickets/7/tags", req.URL.Path)
		return jsonResponse(http.StatusOK, `{"tags":["billing","vip"]}`)
	}))

	tags, err := svc.TicketTags(7)
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "vip"}, tags)

	_, err = svc.TicketTags(7)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	svc.ClearTagCache()
	_, err = svc.TicketTags(7)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTicketTagsNullBody(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(*http.Request) *http.Response {
		return jsonResponse(http.StatusOK, "")
	}))

	tags, err := svc.TicketTags(7)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestTicketArticlesCaching(t *testing.T) {
	calls := 0
	svc := newTestService(t, roundTripFunc(func(req *http.Request) *http.Response {
		calls++
		require.Equal(t, "/api/v1/ticket_articles/by_ticket/7", req.URL.Path)
		return jsonResponse(http.StatusOK, `[{"id":1,"ticket_id":7,"body":"hello","created_by_id":3}]`)
	}))

	articles, err := svc.TicketArticles(7)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "hello", articles[0].Body)

	_, err = svc.TicketArticles(7)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	svc.ClearArticleCache()
	_, err = svc.TicketArticles(7)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTicketsForCurrentUserEnrichment(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(req *http.Request) *http.Response {
		switch {
		case req.URL.Path == "/api/v1/users/me":
			return jsonResponse(http.StatusOK, `{"id":9,"login":"agent"}`)
		case req.URL.Path == "/api/v1/tickets/search":
			require.Contains(t, req.URL.Query().Get("query"), "owner_id:9")
			return jsonResponse(http.StatusOK, `[
				{"id":1,"number":"10001","title":"First","organization_id":5},
				{"id":2,"number":"10002","title":"Second","organization_id":6}
			]`)
		case req.URL.Path == "/api/v1/organizations/5":
			return jsonResponse(http.StatusOK, `{"id":5,"name":"ACME"}`)
		case req.URL.Path == "/api/v1/organizations/6":
			return jsonResponse(http.StatusInternalServerError, `{"error":"boom"}`)
		}
		return jsonResponse(http.StatusNotFound, "")
	}))

	tickets, err := svc.TicketsForCurrentUser()
	require.NoError(t, err, "a failed organization lookup must not fail the listing")
	require.Len(t, tickets, 2)
	assert.Equal(t, "ACME", tickets[0].OrganizationName)
	assert.Empty(t, tickets[1].OrganizationName)
}

func TestTicketsForCurrentUserEmptyResult(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(req *http.Request) *http.Response {
		if req.URL.Path == "/api/v1/users/me" {
			return jsonResponse(http.StatusOK, `{"id":9}`)
		}
		return jsonResponse(http.StatusOK, `[]`)
	}))

	tickets, err := svc.TicketsForCurrentUser()
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestLenientJSONDecoding(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(*http.Request) *http.Response {
		// trailing comma and a comment, as some proxies emit
		return jsonResponse(http.StatusOK, `{"id":42,"login":"agent", /* cached */ }`)
	}))

	user, err := svc.UserByID(42)
	require.NoError(t, err)
	assert.Equal(t, "agent", user.Login)
}

func TestCreateTimeEntry(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(req *http.Request) *http.Response {
		require.Equal(t, http.MethodPost, req.Method)
		require.Equal(t, "/api/v1/tickets/7/time_accountings", req.URL.Path)
		body, _ := io.ReadAll(req.Body)
		require.JSONEq(t, `{"time_unit":"01:30:00","note":"pairing"}`, string(body))
		return jsonResponse(http.StatusCreated, `{"id":11,"ticket_id":7,"time_unit":"01:30:00","note":"pairing"}`)
	}))

	entry, err := svc.CreateTimeAccountingEntry(7, "01:30:00", "pairing")
	require.NoError(t, err)
	assert.Equal(t, 11, entry.ID)
	assert.Equal(t, "01:30:00", entry.TimeUnit)
}

func TestCreateTimeEntryEmptyBody(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(*http.Request) *http.Response {
		return jsonResponse(http.StatusOK, "")
	}))

	_, err := svc.CreateTimeAccountingEntry(7, "00:10:00", "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
}

func TestTimeAccountingDisabled(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(*http.Request) *http.Response {
		return jsonResponse(http.StatusForbidden, `{"error":"Time Accounting is not enabled"}`)
	}))

	_, err := svc.CreateTimeAccountingEntry(7, "00:10:00", "")

	var featErr *FeatureNotEnabledError
	require.ErrorAs(t, err, &featErr)
	assert.Equal(t, "Time Accounting", featErr.Feature)

	_, err = svc.TimeAccountingEntries(7)
	require.ErrorAs(t, err, &featErr)
}

func TestForbiddenWithoutMarkerIsAPIError(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(*http.Request) *http.Response {
		return jsonResponse(http.StatusForbidden, `{"error":"insufficient rights"}`)
	}))

	_, err := svc.CreateTimeAccountingEntry(7, "00:10:00", "")

	var featErr *FeatureNotEnabledError
	assert.False(t, errors.As(err, &featErr))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestForbiddenOnNonTimeEndpointIsAPIError(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(*http.Request) *http.Response {
		return jsonResponse(http.StatusForbidden, `{"error":"Time Accounting is not enabled"}`)
	}))

	_, err := svc.UserByID(3)

	var featErr *FeatureNotEnabledError
	assert.False(t, errors.As(err, &featErr))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestTimeAccountingEntriesNullBody(t *testing.T) {
	svc := newTestService(t, roundTripFunc(func(*http.Request) *http.Response {
		return jsonResponse(http.StatusOK, "null")
	}))

	entries, err := svc.TimeAccountingEntries(7)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
