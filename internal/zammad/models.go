package zammad

import "fmt"

// Ticket is a helpdesk ticket as returned by the ticket search endpoint.
// OrganizationName is not part of the API payload; it is filled in by a
// secondary organization lookup after the ticket has been fetched and stays
// empty when that lookup fails.
type Ticket struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Number         string `json:"number"`
	State          string `json:"state"`
	Priority       string `json:"priority"`
	Group          string `json:"group"`
	Customer       string `json:"customer"`
	OrganizationID *int   `json:"organization_id"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`

	OrganizationName string `json:"-"`
}

func (t Ticket) String() string {
	return fmt.Sprintf("#%s: %s", t.Number, t.Title)
}

type User struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Image     string `json:"image"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FullName joins first and last name, tolerating either being empty.
func (u User) FullName() string {
	switch {
	case u.Firstname == "":
		return u.Lastname
	case u.Lastname == "":
		return u.Firstname
	}
	return u.Firstname + " " + u.Lastname
}

// Organization is only used to resolve a ticket's organization display name.
type Organization struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Article is a comment or message attached to a ticket. Read-only.
type Article struct {
	ID          int    `json:"id"`
	TicketID    int    `json:"ticket_id"`
	Type        string `json:"type"`
	Body        string `json:"body"`
	Subject     string `json:"subject"`
	ContentType string `json:"content_type"`
	Internal    bool   `json:"internal"`
	CreatedByID int    `json:"created_by_id"`
	From        string `json:"from"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TimeAccountingEntry is a recorded duration of work logged against a ticket.
// TimeUnit carries the duration in the "HH:MM:SS" form this client posts.
type TimeAccountingEntry struct {
	ID          int    `json:"id"`
	TicketID    int    `json:"ticket_id"`
	TimeUnit    string `json:"time_unit"`
	Note        string `json:"note"`
	CreatedByID int    `json:"created_by_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// timeAccountingRequest is the write-only payload for creating a time entry.
// Never returned by the API.
type timeAccountingRequest struct {
	TimeUnit string `json:"time_unit"`
	Note     string `json:"note,omitempty"`
}

// ticketTags is the envelope of the ticket tags endpoint.
type ticketTags struct {
	Tags []string `json:"tags"`
}
