// Package response wraps handler results in the envelope the caller expects.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"kondate-planner/internal/invocation"

	"github.com/aws/aws-lambda-go/events"
)

const (
	ContentTypeJSON       = "application/json"
	DefaultMessageVersion = "1.0"
	functionBodyKey       = "TEXT"
)

// CORSHeaders are attached to every status/body and HTTP API response.
var CORSHeaders = map[string]string{
	"Content-Type":                 ContentTypeJSON,
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
}

// Result is a handler outcome before it is wrapped.
type Result struct {
	StatusCode int
	Body       interface{}
}

func New(status int, body interface{}) Result {
	return Result{StatusCode: status, Body: body}
}

func OK(body interface{}) Result {
	return New(http.StatusOK, body)
}

func Created(body interface{}) Result {
	return New(http.StatusCreated, body)
}

// AgentResponse is the wrapper an agent action group expects back.
type AgentResponse struct {
	MessageVersion string              `json:"messageVersion"`
	Response       AgentActionResponse `json:"response"`
}

type AgentActionResponse struct {
	ActionGroup      string                 `json:"actionGroup"`
	APIPath          string                 `json:"apiPath,omitempty"`
	HTTPMethod       string                 `json:"httpMethod,omitempty"`
	Function         string                 `json:"function,omitempty"`
	HTTPStatusCode   int                    `json:"httpStatusCode,omitempty"`
	ResponseBody     map[string]BodyContent `json:"responseBody,omitempty"`
	FunctionResponse *FunctionResponse      `json:"functionResponse,omitempty"`
}

// FunctionResponse is used by function-style action groups, which have no
// apiPath and read a text body.
type FunctionResponse struct {
	ResponseState string                 `json:"responseState,omitempty"`
	ResponseBody  map[string]BodyContent `json:"responseBody"`
}

type BodyContent struct {
	Body string `json:"body"`
}

// StatusResponse is the plain status-code/body pair.
type StatusResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// Marshal encodes v as compact JSON with non-ASCII text and HTML characters
// left as is.
func Marshal(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode response body: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ForInvocation picks the agent wrapper when the event carried agent routing
// metadata and the status/body pair otherwise.
func ForInvocation(routing invocation.Routing, r Result) (interface{}, error) {
	if routing.IsAgent() {
		return Agent(routing, r)
	}
	return Status(r)
}

func Agent(routing invocation.Routing, r Result) (*AgentResponse, error) {
	body, err := Marshal(r.Body)
	if err != nil {
		return nil, err
	}

	version := routing.MessageVersion
	if version == "" {
		version = DefaultMessageVersion
	}

	out := &AgentResponse{
		MessageVersion: version,
		Response: AgentActionResponse{
			ActionGroup: routing.ActionGroup,
			APIPath:     routing.APIPath,
			HTTPMethod:  routing.HTTPMethod,
			Function:    routing.Function,
		},
	}

	if routing.Function != "" && routing.APIPath == "" {
		fr := &FunctionResponse{ResponseBody: map[string]BodyContent{functionBodyKey: {Body: body}}}
		if r.StatusCode >= http.StatusBadRequest {
			fr.ResponseState = "FAILURE"
		}
		out.Response.FunctionResponse = fr
		return out, nil
	}

	out.Response.HTTPStatusCode = r.StatusCode
	out.Response.ResponseBody = map[string]BodyContent{ContentTypeJSON: {Body: body}}
	return out, nil
}

func Status(r Result) (*StatusResponse, error) {
	body, err := Marshal(r.Body)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{StatusCode: r.StatusCode, Headers: headers(), Body: body}, nil
}

// HTTP builds an API Gateway HTTP API (payload v2) response.
func HTTP(r Result) (events.APIGatewayV2HTTPResponse, error) {
	body, err := Marshal(r.Body)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: r.StatusCode,
		Headers:    headers(),
		Body:       body,
	}, nil
}

// InternalErrorHTTP is the last-resort response when a body cannot be encoded.
func InternalErrorHTTP() events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    headers(),
		Body:       `{"error":"internal_error","message":"Internal server error"}`,
	}
}

func headers() map[string]string {
	h := make(map[string]string, len(CORSHeaders))
	for k, v := range CORSHeaders {
		h[k] = v
	}
	return h
}
