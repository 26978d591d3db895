package state

import (
	"fmt"
	"strconv"
)

// Wire names accepted by Send and ParseEvent.
const (
	EventChangeName   = "changeName"
	EventNameChange   = "nameChange"
	EventEmailChange  = "emailChange"
	EventNumberChange = "numChange"
	EventURLChange    = "urlChange"
)

// EventNames lists the recognized event names in dispatch-table order.
var EventNames = []string{
	EventChangeName,
	EventNameChange,
	EventEmailChange,
	EventNumberChange,
	EventURLChange,
}

// Event is a request to mutate the state document.
// The set of events is closed; only the types in this file implement it.
type Event interface {
	// Name returns the wire name of the event.
	Name() string

	// Target returns the contact id the event applies to.
	// ok is false for document-level events.
	Target() (id int64, ok bool)

	// Fields returns the event payload for tracing.
	Fields() map[string]any

	isEvent()
}

// ChangeName sets the document-level name.
type ChangeName struct {
	Title string
}

// NameChange sets a contact's name.
type NameChange struct {
	ID      int64
	NewName string
}

// EmailChange sets a contact's email address.
type EmailChange struct {
	ID    int64
	Email string
}

// NumberChange sets a contact's phone number.
type NumberChange struct {
	ID          int64
	PhoneNumber string
}

// URLChange sets a contact's image URL.
type URLChange struct {
	ID       int64
	ImageURL string
}

func (ChangeName) Name() string   { return EventChangeName }
func (NameChange) Name() string   { return EventNameChange }
func (EmailChange) Name() string  { return EventEmailChange }
func (NumberChange) Name() string { return EventNumberChange }
func (URLChange) Name() string    { return EventURLChange }

func (ChangeName) Target() (int64, bool)     { return 0, false }
func (e NameChange) Target() (int64, bool)   { return e.ID, true }
func (e EmailChange) Target() (int64, bool)  { return e.ID, true }
func (e NumberChange) Target() (int64, bool) { return e.ID, true }
func (e URLChange) Target() (int64, bool)    { return e.ID, true }

func (e ChangeName) Fields() map[string]any {
	return map[string]any{"name": e.Title}
}

func (e NameChange) Fields() map[string]any {
	return map[string]any{"id": e.ID, "name": e.NewName}
}

func (e EmailChange) Fields() map[string]any {
	return map[string]any{"id": e.ID, "email": e.Email}
}

func (e NumberChange) Fields() map[string]any {
	return map[string]any{"id": e.ID, "phone_number": e.PhoneNumber}
}

func (e URLChange) Fields() map[string]any {
	return map[string]any{"id": e.ID, "image_url": e.ImageURL}
}

func (ChangeName) isEvent()   {}
func (NameChange) isEvent()   {}
func (EmailChange) isEvent()  {}
func (NumberChange) isEvent() {}
func (URLChange) isEvent()    {}

// ParseEvent builds an Event from its wire name, payload and target id.
// identity is ignored by changeName.
//
// Returns an ErrCodeUnrecognized error for unknown names.
func ParseEvent(name string, data any, identity int64) (Event, error) {
	value := stringData(data)
	switch name {
	case EventChangeName:
		return ChangeName{Title: value}, nil
	case EventNameChange:
		return NameChange{ID: identity, NewName: value}, nil
	case EventEmailChange:
		return EmailChange{ID: identity, Email: value}, nil
	case EventNumberChange:
		return NumberChange{ID: identity, PhoneNumber: value}, nil
	case EventURLChange:
		return URLChange{ID: identity, ImageURL: value}, nil
	default:
		return nil, NewUnrecognizedError("event", name)
	}
}

// stringData renders event data as the string stored in the document.
// Scenario files and JSON decode numbers such as phone numbers as
// integers or floats; those are written out in plain decimal.
func stringData(data any) string {
	switch v := data.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
