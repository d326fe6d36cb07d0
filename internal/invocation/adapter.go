// Package invocation flattens the envelopes different callers use into one
// name to value parameter map.
package invocation

import (
	"strings"

	apperr "kondate-planner/internal/common/errors"

	"github.com/tidwall/gjson"
)

// Kind tags which envelope shape supplied the parameters.
type Kind string

const (
	KindDirectMap          Kind = "direct-map"
	KindNamedParameterList Kind = "named-parameter-list"
	KindNestedRequestBody  Kind = "nested-request-body"
)

const jsonContentType = "application/json"

// Parameters maps parameter names to values exactly as the caller sent them:
// string, float64, bool, nil, map[string]interface{} or []interface{}.
type Parameters map[string]interface{}

func (p Parameters) Get(name string) (interface{}, bool) {
	v, ok := p[name]
	return v, ok
}

// Routing is the metadata an agent response must echo back unchanged.
type Routing struct {
	MessageVersion string
	ActionGroup    string
	APIPath        string
	HTTPMethod     string
	Function       string
}

// IsAgent reports whether the event came from an agent action group.
func (r Routing) IsAgent() bool {
	return r.MessageVersion != "" || r.ActionGroup != ""
}

// Invocation is one parsed inbound event.
type Invocation struct {
	Kind       Kind
	Routing    Routing
	Parameters Parameters
}

// Parse extracts parameters from a raw event. The first matching shape wins
// and shapes are never merged:
//  1. a top-level "parameters" list of {name, value}
//  2. requestBody.content["application/json"] as a list, or its "properties" list
//  3. the event's own top-level fields
func Parse(raw []byte) (*Invocation, error) {
	if !gjson.ValidBytes(raw) {
		return nil, apperr.NewInvalidShapeError("event", "event must be a JSON object")
	}
	event := gjson.ParseBytes(raw)
	if !event.IsObject() {
		return nil, apperr.NewInvalidShapeError("event", "event must be a JSON object")
	}

	inv := &Invocation{Routing: routingOf(event)}

	if list := event.Get("parameters"); isNonEmptyList(list) {
		inv.Kind = KindNamedParameterList
		inv.Parameters = flatten(list)
		return inv, nil
	}

	if list, ok := requestBodyList(event); ok {
		inv.Kind = KindNestedRequestBody
		inv.Parameters = flatten(list)
		return inv, nil
	}

	inv.Kind = KindDirectMap
	inv.Parameters = directMap(event)
	return inv, nil
}

// ExtractParameters is Parse without the routing metadata.
func ExtractParameters(raw []byte) (Parameters, error) {
	inv, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return inv.Parameters, nil
}

func routingOf(event gjson.Result) Routing {
	return Routing{
		MessageVersion: event.Get("messageVersion").String(),
		ActionGroup:    event.Get("actionGroup").String(),
		APIPath:        event.Get("apiPath").String(),
		HTTPMethod:     event.Get("httpMethod").String(),
		Function:       event.Get("function").String(),
	}
}

func isNonEmptyList(r gjson.Result) bool {
	return r.IsArray() && len(r.Array()) > 0
}

// requestBodyList finds the parameter list under the JSON content entry.
// The content key contains a slash, so entries are matched by iteration
// rather than through a path expression.
func requestBodyList(event gjson.Result) (gjson.Result, bool) {
	content := event.Get("requestBody.content")
	if !content.IsObject() {
		return gjson.Result{}, false
	}

	var body gjson.Result
	content.ForEach(func(key, value gjson.Result) bool {
		if strings.EqualFold(key.String(), jsonContentType) {
			body = value
			return false
		}
		return true
	})

	switch {
	case isNonEmptyList(body):
		return body, true
	case body.IsObject() && isNonEmptyList(body.Get("properties")):
		return body.Get("properties"), true
	default:
		return gjson.Result{}, false
	}
}

// flatten turns [{name, value}, ...] into a map. Records without a name are
// skipped; a repeated name keeps the last value.
func flatten(list gjson.Result) Parameters {
	out := make(Parameters)
	list.ForEach(func(_, record gjson.Result) bool {
		name := record.Get("name")
		if name.Type != gjson.String || name.String() == "" {
			return true
		}
		out[name.String()] = record.Get("value").Value()
		return true
	})
	return out
}

func directMap(event gjson.Result) Parameters {
	out := make(Parameters)
	event.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.Value()
		return true
	})
	return out
}
