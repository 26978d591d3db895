package state

import "github.com/roach88/contacts/internal/ir"

// Apply mutates s in place according to ev and reports whether any field
// actually changed. Writing a value equal to the current one is not a change.
//
// Contact events return an ErrCodeContactNotFound error when no contact has
// the target id; s is left untouched in that case.
func Apply(s *ir.State, ev Event) (changed bool, err error) {
	switch e := ev.(type) {
	case ChangeName:
		return setField(&s.Name, e.Title), nil
	case NameChange:
		c, err := lookup(s, e)
		if err != nil {
			return false, err
		}
		return setField(&c.Name, e.NewName), nil
	case EmailChange:
		c, err := lookup(s, e)
		if err != nil {
			return false, err
		}
		return setField(&c.Email, e.Email), nil
	case NumberChange:
		c, err := lookup(s, e)
		if err != nil {
			return false, err
		}
		return setField(&c.PhoneNumber, e.PhoneNumber), nil
	case URLChange:
		c, err := lookup(s, e)
		if err != nil {
			return false, err
		}
		return setField(&c.ImageURL, e.ImageURL), nil
	case nil:
		return false, NewUnrecognizedError("event", "<nil>")
	default:
		return false, NewUnrecognizedError("event", ev.Name())
	}
}

// lookup returns a pointer to the contact ev targets.
func lookup(s *ir.State, ev Event) (*ir.Contact, error) {
	id, _ := ev.Target()
	idx := s.FindContact(id)
	if idx < 0 {
		return nil, NewContactNotFoundError(ev.Name(), id)
	}
	return &s.Contacts[idx], nil
}

func setField(field *string, value string) bool {
	if *field == value {
		return false
	}
	*field = value
	return true
}
