package ir

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

// Contact is one person in the address book.
type Contact struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	ImageURL    string `json:"image_url" yaml:"image_url"`
	Email       string `json:"email" yaml:"email"`
	PhoneNumber string `json:"phone_number" yaml:"phone_number"`
}

// State is the single application document.
//
// Name is a document-level field written by the changeName event and read by
// the getName query. It is unrelated to any contact's name.
//
// NextID is the id a newly created contact would receive. No event
// consumes it today.
type State struct {
	Name           string    `json:"name,omitempty" yaml:"name,omitempty"`
	CurrentContact *int64    `json:"current_contact" yaml:"current_contact"`
	NextID         int64     `json:"next_id" yaml:"next_id"`
	Contacts       []Contact `json:"contacts" yaml:"contacts"`
}

// Clone returns a deep copy of s. The copy shares no memory with s.
func (s State) Clone() State {
	out := State{
		Name:   s.Name,
		NextID: s.NextID,
	}
	if s.CurrentContact != nil {
		id := *s.CurrentContact
		out.CurrentContact = &id
	}
	if s.Contacts != nil {
		out.Contacts = make([]Contact, len(s.Contacts))
		copy(out.Contacts, s.Contacts)
	}
	return out
}

// FindContact returns the index of the first contact whose id equals id,
// or -1 if there is none.
func (s State) FindContact(id int64) int {
	_, idx, _ := lo.FindIndexOf(s.Contacts, func(c Contact) bool { return c.ID == id })
	return idx
}

// Validate checks the structural invariants of a state document: contact
// ids are unique and current_contact, when set, names one of them. All
// violations are reported together.
func (s State) Validate() error {
	var errs *multierror.Error
	seen := make(map[int64]int, len(s.Contacts))
	for i, c := range s.Contacts {
		if prev, ok := seen[c.ID]; ok {
			errs = multierror.Append(errs,
				fmt.Errorf("contacts[%d]: duplicate id %d (first seen at contacts[%d])", i, c.ID, prev))
			continue
		}
		seen[c.ID] = i
	}
	if s.CurrentContact != nil {
		if _, ok := seen[*s.CurrentContact]; !ok {
			errs = multierror.Append(errs,
				fmt.Errorf("current_contact: no contact with id %d", *s.CurrentContact))
		}
	}
	return errs.ErrorOrNil()
}

// ToCanonical converts a contact to a map suitable for MarshalCanonical.
func (c Contact) ToCanonical() map[string]any {
	return map[string]any{
		"id":           c.ID,
		"name":         c.Name,
		"image_url":    c.ImageURL,
		"email":        c.Email,
		"phone_number": c.PhoneNumber,
	}
}

// ToCanonical converts the state to a map suitable for MarshalCanonical.
// Canonical JSON has no null, so an unset Name or CurrentContact is omitted.
func (s State) ToCanonical() map[string]any {
	contacts := make([]any, len(s.Contacts))
	for i, c := range s.Contacts {
		contacts[i] = c.ToCanonical()
	}
	out := map[string]any{
		"next_id":  s.NextID,
		"contacts": contacts,
	}
	if s.Name != "" {
		out["name"] = s.Name
	}
	if s.CurrentContact != nil {
		out["current_contact"] = *s.CurrentContact
	}
	return out
}
