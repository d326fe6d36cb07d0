// internal/handlers/agent/get-recipes/models.go
package getrecipes

import "kondate-planner/internal/models"

type Output struct {
	Recipes []models.Recipe `json:"recipes"`
	Count   int             `json:"count"`
}

type ErrorOutput struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Recipes []models.Recipe `json:"recipes"`
}
