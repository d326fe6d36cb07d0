// internal/handlers/api/menu-history/models.go
package menuhistory

import "kondate-planner/internal/models"

type ListOutput struct {
	History []models.MenuHistory `json:"history"`
	Count   int                  `json:"count"`
}

type SaveOutput struct {
	Message     string             `json:"message"`
	Overwritten bool               `json:"overwritten"`
	History     models.MenuHistory `json:"history"`
}

type ErrorOutput struct {
	Error        string              `json:"error"`
	Field        string              `json:"field,omitempty"`
	ExistingMenu *models.MenuHistory `json:"existing_menu,omitempty"`
}
