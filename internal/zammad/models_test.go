package zammad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketString(t *testing.T) {
	ticket := Ticket{ID: 1, Number: "10042", Title: "Printer on fire"}
	assert.Equal(t, "#10042: Printer on fire", ticket.String())
}

func TestUserFullName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"both names", User{Firstname: "Jo", Lastname: "Doe"}, "Jo Doe"},
		{"first only", User{Firstname: "Jo"}, "Jo"},
		{"last only", User{Lastname: "Doe"}, "Doe"},
		{"neither", User{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.FullName())
		})
	}
}
