package contact_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/artist-site/pkg/sitecontent/contact"
)

func validInquiry() contact.Inquiry {
	return contact.Inquiry{
		Name:      "Ana Ruiz",
		Email:     "ana@example.com",
		Phone:     "555-0100",
		EventDate: "2026-06-20",
		EventType: "wedding",
		Venue:     "Casa Loma",
		Message:   "Ceremony & cocktail hour",
	}
}

func TestInquiry_Validate(t *testing.T) {
	require.NoError(t, validInquiry().Validate())

	inq := validInquiry()
	inq.Phone = "   "
	inq.Venue = ""
	inq.Message = "" // optional

	err := inq.Validate()

	require.ErrorIs(t, err, contact.ErrMissingFields)
	var missing *contact.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"phone", "venue"}, missing.Fields)
	assert.Equal(t, "Please fill in all fields before submitting.", contact.UserMessage(err))
}

func TestValidateRecipient(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"contact@ehabguitarrista.com", true},
		{"a@b.co", true},
		{"", false},
		{"no-at-sign.com", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
		{"missing@tld", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := contact.ValidateRecipient(tt.email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, contact.ErrInvalidRecipient)
			}
		})
	}
}

func TestEventLabel(t *testing.T) {
	assert.Equal(t, "Corporate Event", contact.EventLabel("corporate"))
	assert.Equal(t, "Wedding", contact.EventLabel(" Wedding "))
	assert.Equal(t, "Birthday Party", contact.EventLabel("birthday party"))
}

func TestCompose(t *testing.T) {
	draft, err := contact.Compose("book@example.com", validInquiry())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, draft.ID)
	assert.Equal(t, "book@example.com", draft.To)
	assert.Equal(t, "Booking Inquiry - Wedding on 2026-06-20", draft.Subject)
	assert.Equal(t, strings.Join([]string{
		"Booking Inquiry - Wedding on 2026-06-20",
		"",
		"Name: Ana Ruiz",
		"Email: ana@example.com",
		"Phone: 555-0100",
		"Event Date: 2026-06-20",
		"Event Type: Wedding",
		"Venue: Casa Loma",
		"",
		"Message:",
		"Ceremony & cocktail hour",
	}, "\n"), draft.Body)

	assert.True(t, strings.HasPrefix(draft.MailtoURL, "mailto:book@example.com?subject=Booking%20Inquiry%20-%20Wedding"))
	assert.NotContains(t, draft.MailtoURL, "+")

	u, err := url.Parse(draft.MailtoURL)
	require.NoError(t, err)
	assert.Equal(t, draft.Subject, u.Query().Get("subject"))
	assert.Equal(t, draft.Body, u.Query().Get("body"))
}

func TestCompose_Errors(t *testing.T) {
	inq := validInquiry()
	inq.Name = ""
	_, err := contact.Compose("book@example.com", inq)
	assert.ErrorIs(t, err, contact.ErrMissingFields)

	_, err = contact.Compose("not-an-email", validInquiry())
	assert.ErrorIs(t, err, contact.ErrInvalidRecipient)
	assert.Contains(t, contact.UserMessage(err), "CMS settings")
}
