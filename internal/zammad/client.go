package zammad

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/dp-coding/zammad-tui/internal/config"
)

// featureDisabledMarker is the substring Zammad puts in a 403 body when the
// time accounting feature is switched off for the tenant.
const featureDisabledMarker = "Time Accounting is not enabled"

const requestTimeout = 30 * time.Second

// Service talks to a Zammad instance. It owns the persisted configuration,
// lazily builds the HTTP client, and keeps per-entity caches for users,
// ticket tags and ticket articles. All operations are blocking round trips;
// the caches and the lazy client construction are safe for concurrent use.
type Service struct {
	store *config.Store

	mu     sync.Mutex
	client *http.Client

	users    cache[User]
	tags     cache[[]string]
	articles cache[[]Article]
}

func NewService(store *config.Store) *Service {
	return &Service{store: store}
}

// IsConfigured reports whether both the base URL and the API token are set.
// Pure predicate, no network call.
func (s *Service) IsConfigured() bool {
	return s.store.URL() != "" && s.store.Token() != ""
}

// Initialize persists the URL and token and rebuilds the HTTP client so the
// new credentials take effect immediately.
func (s *Service) Initialize(url, token string) error {
	if err := s.store.SetCredentials(url, token); err != nil {
		return err
	}
	s.mu.Lock()
	s.client = newHTTPClient(token)
	s.mu.Unlock()
	return nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (s *Service) BaseURL() string {
	return strings.TrimRight(s.store.URL(), "/")
}

// authTransport adds the Zammad token scheme to every outgoing request.
// Zammad's documented API token header is "Authorization: Token token=<t>";
// the Bearer scheme some instances accept is deliberately not used.
type authTransport struct {
	token string
	next  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Token token="+t.token)
	return t.next.RoundTrip(clone)
}

func newHTTPClient(token string) *http.Client {
	return &http.Client{
		Timeout:   requestTimeout,
		Transport: &authTransport{token: token, next: http.DefaultTransport},
	}
}

// httpClient returns the client, building it from persisted settings on
// first use after process start.
func (s *Service) httpClient() *http.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		s.client = newHTTPClient(s.store.Token())
	}
	return s.client
}

// do performs one request and classifies failures: unconfigured state before
// any network traffic, transport failures without a status code, and
// non-success statuses with code and raw body. what names the operation for
// error messages, e.g. "fetch current user".
func (s *Service) do(what, method, path string, query url.Values, payload any) ([]byte, error) {
	if !s.IsConfigured() {
		slog.Warn("zammad service is not configured", "op", what)
		return nil, errNotConfigured()
	}

	u := s.BaseURL() + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &APIError{Message: "failed to " + what, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return nil, &APIError{Message: "failed to " + what, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient().Do(req)
	if err != nil {
		slog.Warn("network error", "op", what, "error", err)
		return nil, &APIError{Message: "network error while trying to " + what, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: "network error while trying to " + what, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("api error", "op", what, "status", resp.StatusCode)
		return nil, &APIError{Message: "failed to " + what, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

// decode unmarshals a response body, tolerating relaxed JSON (comments,
// trailing commas) by normalizing it first.
func decode(what string, data []byte, out any) error {
	if err := json.Unmarshal(jsonc.ToJSON(data), out); err != nil {
		return &APIError{Message: "failed to parse response while trying to " + what, Err: err}
	}
	return nil
}

func emptyBody(data []byte) bool {
	t := strings.TrimSpace(string(data))
	return t == "" || t == "null"
}

// asFeatureDisabled rewrites the 403-with-marker response of the time
// accounting endpoints into a FeatureNotEnabledError. Any other error passes
// through unchanged.
func asFeatureDisabled(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden &&
		strings.Contains(apiErr.Body, featureDisabledMarker) {
		return &FeatureNotEnabledError{Feature: "Time Accounting"}
	}
	return err
}

// CurrentUser fetches the authenticated user. Never cached so it always
// reflects live state.
func (s *Service) CurrentUser() (User, error) {
	data, err := s.do("fetch current user", http.MethodGet, pathCurrentUser(), nil, nil)
	if err != nil {
		return User{}, err
	}
	if emptyBody(data) {
		return User{}, &APIError{Message: "failed to fetch current user: response body is empty"}
	}
	var user User
	if err := decode("fetch current user", data, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// UserByID returns the user with the given id, serving repeated lookups from
// the cache.
func (s *Service) UserByID(id int) (User, error) {
	if user, ok := s.users.get(id); ok {
		slog.Debug("user cache hit", "id", id)
		return user, nil
	}
	data, err := s.do("fetch user", http.MethodGet, pathUserByID(id), nil, nil)
	if err != nil {
		return User{}, err
	}
	if emptyBody(data) {
		return User{}, &APIError{Message: "failed to fetch user: response body is empty"}
	}
	var user User
	if err := decode("fetch user", data, &user); err != nil {
		return User{}, err
	}
	s.users.put(id, user)
	return user, nil
}

// ClearUserCache drops every cached user.
func (s *Service) ClearUserCache() { s.users.clear() }

// TicketsForCurrentUser resolves the current user and searches for their
// open tickets. Every ticket carrying an organization id gets its
// organization display name resolved; a failed lookup leaves the name empty
// instead of failing the whole listing. Server order is preserved and an
// empty result is a valid outcome.
func (s *Service) TicketsForCurrentUser() ([]Ticket, error) {
	user, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}

	data, err := s.do("fetch tickets", http.MethodGet, pathTicketSearch(), searchQuery(user.ID), nil)
	if err != nil {
		return nil, err
	}
	if emptyBody(data) {
		return []Ticket{}, nil
	}

	var tickets []Ticket
	if err := decode("fetch tickets", data, &tickets); err != nil {
		return nil, err
	}

	for i := range tickets {
		if tickets[i].OrganizationID == nil {
			continue
		}
		org, err := s.OrganizationByID(*tickets[i].OrganizationID)
		if err != nil {
			slog.Debug("organization lookup failed", "ticket", tickets[i].ID, "error", err)
			continue
		}
		tickets[i].OrganizationName = org.Name
	}

	slog.Info("fetched tickets", "count", len(tickets), "owner", user.ID)
	return tickets, nil
}

// OrganizationByID fetches a single organization.
func (s *Service) OrganizationByID(id int) (Organization, error) {
	data, err := s.do("fetch organization", http.MethodGet, pathOrganizationByID(id), nil, nil)
	if err != nil {
		return Organization{}, err
	}
	if emptyBody(data) {
		return Organization{}, &APIError{Message: "failed to fetch organization: response body is empty"}
	}
	var org Organization
	if err := decode("fetch organization", data, &org); err != nil {
		return Organization{}, err
	}
	return org, nil
}

// TicketTags returns the tags of a ticket, cache-first. A missing body is an
// empty tag list.
func (s *Service) TicketTags(ticketID int) ([]string, error) {
	if tags, ok := s.tags.get(ticketID); ok {
		slog.Debug("tag cache hit", "ticket", ticketID)
		return tags, nil
	}
	data, err := s.do("fetch ticket tags", http.MethodGet, pathTicketTags(ticketID), nil, nil)
	if err != nil {
		return nil, err
	}
	tags := []string{}
	if !emptyBody(data) {
		var envelope ticketTags
		if err := decode("fetch ticket tags", data, &envelope); err != nil {
			return nil, err
		}
		if envelope.Tags != nil {
			tags = envelope.Tags
		}
	}
	s.tags.put(ticketID, tags)
	return tags, nil
}

// ClearTagCache drops every cached tag list.
func (s *Service) ClearTagCache() { s.tags.clear() }

// TicketArticles returns the articles of a ticket, cache-first. A missing
// body is an empty list.
func (s *Service) TicketArticles(ticketID int) ([]Article, error) {
	if articles, ok := s.articles.get(ticketID); ok {
		slog.Debug("article cache hit", "ticket", ticketID)
		return articles, nil
	}
	data, err := s.do("fetch ticket articles", http.MethodGet, pathTicketArticles(ticketID), nil, nil)
	if err != nil {
		return nil, err
	}
	articles := []Article{}
	if !emptyBody(data) {
		if err := decode("fetch ticket articles", data, &articles); err != nil {
			return nil, err
		}
	}
	s.articles.put(ticketID, articles)
	return articles, nil
}

// ClearArticleCache drops every cached article list.
func (s *Service) ClearArticleCache() { s.articles.clear() }

// TimeAccountingEntries lists the time entries of a ticket. Never cached;
// time entries change too often.
func (s *Service) TimeAccountingEntries(ticketID int) ([]TimeAccountingEntry, error) {
	data, err := s.do("fetch time entries", http.MethodGet, pathTimeAccountings(ticketID), nil, nil)
	if err != nil {
		return nil, asFeatureDisabled(err)
	}
	if emptyBody(data) {
		return []TimeAccountingEntry{}, nil
	}
	var entries []TimeAccountingEntry
	if err := decode("fetch time entries", data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateTimeAccountingEntry posts a new time entry. duration is "HH:MM:SS";
// note may be empty. The server must return the created entry, an empty body
// is an APIError.
func (s *Service) CreateTimeAccountingEntry(ticketID int, duration, note string) (TimeAccountingEntry, error) {
	payload := timeAccountingRequest{TimeUnit: duration, Note: note}
	data, err := s.do("create time entry", http.MethodPost, pathTimeAccountings(ticketID), nil, payload)
	if err != nil {
		return TimeAccountingEntry{}, asFeatureDisabled(err)
	}
	if emptyBody(data) {
		return TimeAccountingEntry{}, &APIError{Message: "failed to create time entry: response body is empty"}
	}
	var entry TimeAccountingEntry
	if err := decode("create time entry", data, &entry); err != nil {
		return TimeAccountingEntry{}, err
	}
	slog.Info("created time entry", "ticket", ticketID, "duration", duration)
	return entry, nil
}
