// Package itemapi defines the wire-level contract of the items service: the
// shapes of its success and error responses, and a builder for request
// payloads. The contract is asserted by the test suite, never enforced here.
package itemapi

import (
	"encoding/json"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Item is an item resource as the service returns it. Description uses an
// optional string because the service serializes it as null when unset.
type Item struct {
	ID          int                    `json:"id"`
	Name        string                 `json:"name"`
	Description ldvalue.OptionalString `json:"description"`
	Price       float64                `json:"price"`
	Quantity    int                    `json:"quantity"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at"`
}

// ErrorMessage is the body of plain error responses such as 404s.
type ErrorMessage struct {
	Detail string `json:"detail"`
}

// ValidationError is the body of 422 responses: a list of issues, each
// locating the offending field.
type ValidationError struct {
	Detail []ValidationIssue `json:"detail"`
}

// ValidationIssue mirrors one entry of a validation error's detail list. Loc
// holds the path to the bad input, e.g. ["body", "price"]; entries can be
// strings or numbers, so it stays loosely typed.
type ValidationIssue struct {
	Loc  []interface{} `json:"loc"`
	Msg  string        `json:"msg"`
	Type string        `json:"type"`
}

// FieldNames returns the final path element of each issue's location, which
// for body validation errors is the offending field's name.
func (e ValidationError) FieldNames() []string {
	var ret []string
	for _, issue := range e.Detail {
		if len(issue.Loc) == 0 {
			continue
		}
		if s, ok := issue.Loc[len(issue.Loc)-1].(string); ok {
			ret = append(ret, s)
		}
	}
	return ret
}

func (e ValidationError) HasField(name string) bool {
	for _, f := range e.FieldNames() {
		if f == name {
			return true
		}
	}
	return false
}

func ParseItem(data []byte) (Item, error) {
	var item Item
	err := json.Unmarshal(data, &item)
	return item, err
}

func ParseItemList(data []byte) ([]Item, error) {
	var items []Item
	err := json.Unmarshal(data, &items)
	return items, err
}

func ParseErrorMessage(data []byte) (ErrorMessage, error) {
	var msg ErrorMessage
	err := json.Unmarshal(data, &msg)
	return msg, err
}

func ParseValidationError(data []byte) (ValidationError, error) {
	var ve ValidationError
	err := json.Unmarshal(data, &ve)
	return ve, err
}
