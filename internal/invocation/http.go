package invocation

import (
	"encoding/base64"

	apperr "kondate-planner/internal/common/errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
)

// FromHTTPRequest reads parameters from an HTTP API request: query string
// values first, then top-level fields of a JSON body, which win on clashes.
func FromHTTPRequest(req events.APIGatewayV2HTTPRequest) (Parameters, error) {
	out := make(Parameters, len(req.QueryStringParameters))
	for k, v := range req.QueryStringParameters {
		out[k] = v
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded && len(body) > 0 {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, apperr.NewInvalidShapeError("body", "body is not valid base64")
		}
		body = decoded
	}
	if len(body) == 0 {
		return out, nil
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, apperr.NewInvalidShapeError("body", "body must be a JSON object")
	}
	for k, v := range directMap(gjson.ParseBytes(body)) {
		out[k] = v
	}
	return out, nil
}

// Method returns the HTTP method of a payload v2 request.
func Method(req events.APIGatewayV2HTTPRequest) string {
	return req.RequestContext.HTTP.Method
}
