package state

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/contacts/internal/ir"
)

// Wire names accepted by Query and ParseQuery.
const (
	QueryGetName    = "getName"
	QueryGetContact = "getContact"
)

// QueryNames lists the recognized query names.
var QueryNames = []string{QueryGetName, QueryGetContact}

// Query is a read-only request for part of the state document.
type Query interface {
	Name() string
	isQuery()
}

// GetName reads the document-level name set by ChangeName.
// The result is "" until a ChangeName event has been applied.
type GetName struct{}

// GetContact reads one contact by id.
type GetContact struct {
	ID int64
}

func (GetName) Name() string    { return QueryGetName }
func (GetContact) Name() string { return QueryGetContact }

func (GetName) isQuery()    {}
func (GetContact) isQuery() {}

// ParseQuery builds a Query from its wire name and data.
// getName ignores data; getContact expects a contact id.
func ParseQuery(name string, data any) (Query, error) {
	switch name {
	case QueryGetName:
		return GetName{}, nil
	case QueryGetContact:
		id, err := intData(data)
		if err != nil {
			return nil, NewInvalidArgumentError(name, err.Error())
		}
		return GetContact{ID: id}, nil
	default:
		return nil, NewUnrecognizedError("query", name)
	}
}

// Resolve evaluates q against s. It never modifies s.
func Resolve(s ir.State, q Query) (any, error) {
	switch v := q.(type) {
	case GetName:
		return s.Name, nil
	case GetContact:
		idx := s.FindContact(v.ID)
		if idx < 0 {
			return nil, NewContactNotFoundError(v.Name(), v.ID)
		}
		return s.Contacts[idx], nil
	case nil:
		return nil, NewUnrecognizedError("query", "<nil>")
	default:
		return nil, NewUnrecognizedError("query", q.Name())
	}
}

// intData converts query data to a contact id.
// Strings come from the CLI; floats come from JSON decoding.
func intData(data any) (int64, error) {
	switch v := data.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("contact id must be an integer, got %v", v)
		}
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("contact id must be an integer, got %q", v)
		}
		return id, nil
	case nil:
		return 0, fmt.Errorf("contact id is required")
	default:
		return 0, fmt.Errorf("contact id must be an integer, got %T", data)
	}
}
