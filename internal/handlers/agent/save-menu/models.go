// internal/handlers/agent/save-menu/models.go
package savemenu

import "kondate-planner/internal/models"

type Output struct {
	Success     bool     `json:"success"`
	Date        string   `json:"date"`
	Message     string   `json:"message"`
	Overwritten bool     `json:"overwritten"`
	Recipes     []string `json:"recipes"`
}

type ErrorOutput struct {
	Success      bool                `json:"success"`
	Error        string              `json:"error"`
	Field        string              `json:"field,omitempty"`
	Message      string              `json:"message"`
	ExistingMenu *models.MenuHistory `json:"existing_menu,omitempty"`
}

