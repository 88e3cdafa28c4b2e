package mockapi

import (
	"encoding/json"
	"io/ioutil"
	"math"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/apisut/items-contract-tests/itemapi"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// itemPayload is a request body that survived validation.
type itemPayload struct {
	name        string
	description ldvalue.OptionalString
	price       float64
	quantity    int
}

// readItemPayload consumes a create or update request body and validates it
// field by field, producing the same issue list the service would. An empty
// issue list means the payload is usable.
func readItemPayload(r *http.Request) (itemPayload, []itemapi.ValidationIssue) {
	var p itemPayload
	body, err := ioutil.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		return p, []itemapi.ValidationIssue{{
			Loc:  []interface{}{"body"},
			Msg:  "Field required",
			Type: "missing",
		}}
	}
	if !strings.Contains(r.Header.Get("Content-Type"), "json") {
		return p, []itemapi.ValidationIssue{{
			Loc:  []interface{}{"body"},
			Msg:  "Input should be a valid dictionary or object to extract fields from",
			Type: "model_attributes_type",
		}}
	}
	if !json.Valid(body) {
		return p, []itemapi.ValidationIssue{{
			Loc:  []interface{}{"body", 1},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}}
	}
	payload := ldvalue.Parse(body)
	if payload.Type() != ldvalue.ObjectType {
		return p, []itemapi.ValidationIssue{{
			Loc:  []interface{}{"body"},
			Msg:  "Input should be a valid dictionary or object to extract fields from",
			Type: "model_attributes_type",
		}}
	}
	return validateItemFields(payload)
}

// validateItemFields applies the field rules: name is a string of 1 to 100
// characters, description is an optional string of up to 500 characters,
// price is a number greater than zero, and quantity is an integer of at
// least zero. Unknown fields are ignored.
func validateItemFields(payload ldvalue.Value) (itemPayload, []itemapi.ValidationIssue) {
	var p itemPayload
	var issues []itemapi.ValidationIssue

	name, ok := payload.TryGetByKey("name")
	switch {
	case !ok:
		issues = append(issues, bodyIssue("name", "Field required", "missing"))
	case name.Type() != ldvalue.StringType:
		issues = append(issues, bodyIssue("name", "Input should be a valid string", "string_type"))
	case utf8.RuneCountInString(name.StringValue()) < 1:
		issues = append(issues, bodyIssue("name", "String should have at least 1 character", "string_too_short"))
	case utf8.RuneCountInString(name.StringValue()) > 100:
		issues = append(issues, bodyIssue("name", "String should have at most 100 characters", "string_too_long"))
	default:
		p.name = name.StringValue()
	}

	if description, ok := payload.TryGetByKey("description"); ok && !description.IsNull() {
		switch {
		case description.Type() != ldvalue.StringType:
			issues = append(issues, bodyIssue("description", "Input should be a valid string", "string_type"))
		case utf8.RuneCountInString(description.StringValue()) > 500:
			issues = append(issues, bodyIssue("description", "String should have at most 500 characters", "string_too_long"))
		default:
			p.description = ldvalue.NewOptionalString(description.StringValue())
		}
	}

	price, ok := payload.TryGetByKey("price")
	switch {
	case !ok:
		issues = append(issues, bodyIssue("price", "Field required", "missing"))
	case price.Type() != ldvalue.NumberType:
		issues = append(issues, bodyIssue("price", "Input should be a valid number", "float_type"))
	case price.Float64Value() <= 0:
		issues = append(issues, bodyIssue("price", "Input should be greater than 0", "greater_than"))
	default:
		p.price = price.Float64Value()
	}

	quantity, ok := payload.TryGetByKey("quantity")
	switch {
	case !ok:
		issues = append(issues, bodyIssue("quantity", "Field required", "missing"))
	case quantity.Type() != ldvalue.NumberType:
		issues = append(issues, bodyIssue("quantity", "Input should be a valid integer", "int_type"))
	case quantity.Float64Value() != math.Trunc(quantity.Float64Value()):
		issues = append(issues, bodyIssue("quantity",
			"Input should be a valid integer, got a number with a fractional part", "int_from_float"))
	case quantity.Float64Value() < 0:
		issues = append(issues, bodyIssue("quantity", "Input should be greater than or equal to 0", "greater_than_equal"))
	default:
		p.quantity = quantity.IntValue()
	}

	return p, issues
}

func bodyIssue(field, msg, issueType string) itemapi.ValidationIssue {
	return itemapi.ValidationIssue{
		Loc:  []interface{}{"body", field},
		Msg:  msg,
		Type: issueType,
	}
}
