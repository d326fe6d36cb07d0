// internal/handlers/agent/suggest-menu/models.go
package suggestmenu

type ErrorOutput struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
