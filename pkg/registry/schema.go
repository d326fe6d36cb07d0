// pkg/registry/schema.go
package registry

// Transport is a way an action can be invoked.
type Transport string

const (
	TransportAgent Transport = "agent"
	TransportHTTP  Transport = "http"
	TransportZeebe Transport = "zeebe"
)

type ActionRegistry struct {
	Version     string   `yaml:"version" json:"version"`
	LastUpdated string   `yaml:"lastUpdated" json:"lastUpdated"`
	Actions     []Action `yaml:"actions" json:"actions"`
}

type Action struct {
	TaskType    string      `yaml:"taskType" json:"taskType"`
	DisplayName string      `yaml:"displayName" json:"displayName"`
	Description string      `yaml:"description" json:"description"`
	Transports  []Transport `yaml:"transports" json:"transports"`
	// Route is the HTTP API route, empty for agent-only actions.
	Route      string   `yaml:"route,omitempty" json:"route,omitempty"`
	Parameters []string `yaml:"parameters" json:"parameters"`
	ErrorCodes []string `yaml:"errorCodes" json:"errorCodes"`
	Tags       []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Supports reports whether the action is served over t.
func (a Action) Supports(t Transport) bool {
	for _, have := range a.Transports {
		if have == t {
			return true
		}
	}
	return false
}
