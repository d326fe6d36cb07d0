// internal/bootstrap/dispatch.go
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kondate-planner/internal/common/observability"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
)

// LambdaHandler is the signature handed to lambda.Start.
type LambdaHandler func(ctx context.Context, event json.RawMessage) (interface{}, error)

// Dispatcher routes one Lambda function's events to the action named by
// lambda.handler. HTTP API events go to the HTTP handler when the action has
// one; everything else is treated as an agent or direct event.
type Dispatcher struct {
	name  string
	agent AgentAction
	http  HTTPAction
	obs   *observability.Observability
}

func NewDispatcher(name string, agent map[string]AgentAction, http map[string]HTTPAction, obs *observability.Observability) (*Dispatcher, error) {
	d := &Dispatcher{name: name, agent: agent[name], http: http[name], obs: obs}
	if d.agent == nil && d.http == nil {
		return nil, fmt.Errorf("unknown handler %q", name)
	}
	return d, nil
}

func (d *Dispatcher) Handle(ctx context.Context, event json.RawMessage) (interface{}, error) {
	started := time.Now()
	out, err := d.route(ctx, event)

	status := "ok"
	if err != nil {
		status = "error"
	}
	d.obs.RecordInvocation(ctx, d.name, status)
	d.obs.RecordDuration(ctx, d.name, time.Since(started))
	return out, err
}

func (d *Dispatcher) route(ctx context.Context, event json.RawMessage) (interface{}, error) {
	if isHTTPEvent(event) && d.http != nil {
		var req events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(event, &req); err != nil {
			return nil, fmt.Errorf("decode http api event: %w", err)
		}
		return d.http.HandleHTTP(ctx, req)
	}
	if d.agent != nil {
		return d.agent.Handle(ctx, event)
	}
	return nil, fmt.Errorf("handler %q only serves HTTP API events", d.name)
}

// isHTTPEvent recognises an HTTP API payload v2 request.
func isHTTPEvent(event json.RawMessage) bool {
	r := gjson.ParseBytes(event)
	return r.Get("version").String() == "2.0" && r.Get("requestContext.http.method").Exists()
}
