package zammad

import (
	"fmt"
	"net/url"
)

// Declarative description of the Zammad REST endpoints this client uses.
// Paths are relative to the configured base URL; all bodies are JSON.

func pathCurrentUser() string { return "/api/v1/users/me" }

func pathUserByID(id int) string { return fmt.Sprintf("/api/v1/users/%d", id) }

func pathTicketSearch() string { return "/api/v1/tickets/search" }

func pathTicketTags(ticketID int) string {
	return fmt.Sprintf("/api/v1/tickets/%d/tags", ticketID)
}

func pathTicketArticles(ticketID int) string {
	return fmt.Sprintf("/api/v1/ticket_articles/by_ticket/%d", ticketID)
}

func pathOrganizationByID(id int) string {
	return fmt.Sprintf("/api/v1/organizations/%d", id)
}

func pathTimeAccountings(ticketID int) string {
	return fmt.Sprintf("/api/v1/tickets/%d/time_accountings", ticketID)
}

// searchQuery is the default "open tickets for this user" server-side search
// expression: new (1), open (4) and "pending close" (10) tickets owned by the
// given user.
func searchQuery(ownerID int) url.Values {
	expr := fmt.Sprintf("(state_id:4 OR state_id:1 OR state_id:10) AND owner_id:%d", ownerID)
	return url.Values{"query": {expr}}
}
