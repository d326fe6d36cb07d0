// internal/handlers/agent/get-history/models.go
package gethistory

import "kondate-planner/internal/models"

type Output struct {
	History []models.MenuHistory `json:"history"`
	Count   int                  `json:"count"`
	Days    int                  `json:"days"`
}

// ErrorOutput always carries an empty history so callers can render
// "nothing found" without special-casing failures.
type ErrorOutput struct {
	Error   string               `json:"error"`
	Field   string               `json:"field,omitempty"`
	Message string               `json:"message"`
	History []models.MenuHistory `json:"history"`
}
