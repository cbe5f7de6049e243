// Package contact validates booking inquiries and composes the mail draft
// sent to the address configured in the CMS contact section.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrMissingFields indicates a required inquiry field is blank
	ErrMissingFields = errors.New("missing required inquiry fields")

	// ErrInvalidRecipient indicates the CMS contact email is not usable
	ErrInvalidRecipient = errors.New("invalid recipient email address")
)

// UserMessage returns the text shown to a visitor for a Compose error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return "Please fill in all fields before submitting."
	case errors.Is(err, ErrInvalidRecipient):
		return "Invalid recipient email address in CMS settings. Please contact the site administrator."
	default:
		return "Unable to prepare your booking inquiry. Please contact us directly."
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EventTypes maps the booking form's event type values to their labels.
var EventTypes = map[string]string{
	"wedding":   "Wedding",
	"corporate": "Corporate Event",
	"private":   "Private Party",
	"concert":   "Concert",
	"other":     "Other",
}

// Inquiry is a submitted booking form. Message is optional.
type Inquiry struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	EventDate string `json:"eventDate"`
	EventType string `json:"eventType"`
	Venue     string `json:"venue"`
	Message   string `json:"message"`
}

// MissingFieldsError lists the blank required fields of an Inquiry.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFields.Error(), strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingFields
}

// Validate reports every required field that is blank after trimming.
func (i Inquiry) Validate() error {
	required := []struct {
		name, value string
	}{
		{"name", i.Name},
		{"email", i.Email},
		{"phone", i.Phone},
		{"eventDate", i.EventDate},
		{"eventType", i.EventType},
		{"venue", i.Venue},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// ValidateRecipient checks the CMS contact address.
func ValidateRecipient(email string) error {
	if email == "" || !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, email)
	}
	return nil
}

// EventLabel returns the display label for an event type value. Unknown
// values are title-cased.
func EventLabel(eventType string) string {
	eventType = strings.TrimSpace(eventType)
	if label, ok := EventTypes[strings.ToLower(eventType)]; ok {
		return label
	}
	return cases.Title(language.English).String(eventType)
}

// Draft is a composed booking email.
type Draft struct {
	ID        uuid.UUID `json:"id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	MailtoURL string    `json:"mailtoUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// Compose validates the inquiry and the recipient and builds the draft.
func Compose(recipient string, inq Inquiry) (*Draft, error) {
	if err := inq.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateRecipient(recipient); err != nil {
		return nil, err
	}

	inq = trimmed(inq)
	eventType := EventLabel(inq.EventType)
	subject := fmt.Sprintf("Booking Inquiry - %s on %s", eventType, inq.EventDate)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", subject)
	fmt.Fprintf(&b, "Name: %s\n", inq.Name)
	fmt.Fprintf(&b, "Email: %s\n", inq.Email)
	fmt.Fprintf(&b, "Phone: %s\n", inq.Phone)
	fmt.Fprintf(&b, "Event Date: %s\n", inq.EventDate)
	fmt.Fprintf(&b, "Event Type: %s\n", eventType)
	fmt.Fprintf(&b, "Venue: %s\n\n", inq.Venue)
	fmt.Fprintf(&b, "Message:\n%s", inq.Message)
	body := strings.TrimSpace(b.String())

	return &Draft{
		ID:        uuid.New(),
		To:        recipient,
		Subject:   subject,
		Body:      body,
		MailtoURL: MailtoURL(recipient, subject, body),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MailtoURL builds a mailto: link. Spaces are encoded as %20 since mail
// clients do not decode "+".
func MailtoURL(to, subject, body string) string {
	escape := func(s string) string {
		return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	}
	return "mailto:" + to + "?subject=" + escape(subject) + "&body=" + escape(body)
}

func trimmed(inq Inquiry) Inquiry {
	inq.Name = strings.TrimSpace(inq.Name)
	inq.Email = strings.TrimSpace(inq.Email)
	inq.Phone = strings.TrimSpace(inq.Phone)
	inq.EventDate = strings.TrimSpace(inq.EventDate)
	inq.EventType = strings.TrimSpace(inq.EventType)
	inq.Venue = strings.TrimSpace(inq.Venue)
	inq.Message = strings.TrimSpace(inq.Message)
	return inq
}
