// internal/handlers/api/create-recipe/models.go
package createrecipe

import "kondate-planner/internal/models"

type Output struct {
	Message string        `json:"message"`
	Recipe  models.Recipe `json:"recipe"`
}

type ErrorOutput struct {
	Error   string   `json:"error"`
	Field   string   `json:"field,omitempty"`
	Details []string `json:"details,omitempty"`
}
