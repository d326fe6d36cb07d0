// pkg/registry/registry.go
package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var validationCodes = []string{
	"MISSING_FIELD", "INVALID_TYPE", "OUT_OF_RANGE", "INVALID_DATE",
	"INVALID_SHAPE", "EMPTY_MEAL_SLOT", "INCOMPLETE_RECIPE_REFERENCE", "UNPARSABLE_PARAMETER",
}

func withCodes(extra ...string) []string {
	return append(append([]string{}, validationCodes...), extra...)
}

// Default is the catalogue of actions this module ships.
func Default() *ActionRegistry {
	return &ActionRegistry{
		Version:     "1.0.0",
		LastUpdated: "2025-11-08",
		Actions: []Action{
			{
				TaskType:    "save-menu",
				DisplayName: "Save menu",
				Description: "Stores one day's menu; refuses to replace an existing day unless overwrite is set",
				Transports:  []Transport{TransportAgent, TransportZeebe},
				Parameters:  []string{"date", "meals", "notes", "overwrite"},
				ErrorCodes:  withCodes("CONFLICT", "COLLABORATOR_FAILURE"),
				Tags:        []string{"history", "write"},
			},
			{
				TaskType:    "get-history",
				DisplayName: "Get menu history",
				Description: "Returns the stored menus of the last N days, newest first",
				Transports:  []Transport{TransportAgent, TransportZeebe},
				Parameters:  []string{"days"},
				ErrorCodes:  []string{"INVALID_TYPE", "OUT_OF_RANGE", "COLLABORATOR_FAILURE"},
				Tags:        []string{"history", "read"},
			},
			{
				TaskType:    "get-recipes",
				DisplayName: "Get recipes",
				Description: "Lists recipes, optionally filtered by category, sorted by name",
				Transports:  []Transport{TransportAgent, TransportZeebe},
				Parameters:  []string{"category"},
				ErrorCodes:  []string{"COLLABORATOR_FAILURE"},
				Tags:        []string{"recipes", "read"},
			},
			{
				TaskType:    "suggest-menu",
				DisplayName: "Suggest menu",
				Description: "Asks the language model for a 3 or 7 day menu built from the catalogue",
				Transports:  []Transport{TransportAgent, TransportHTTP, TransportZeebe},
				Route:       "POST /suggest-menu",
				Parameters:  []string{"days"},
				ErrorCodes:  []string{"INVALID_TYPE", "OUT_OF_RANGE", "NOT_FOUND", "COLLABORATOR_FAILURE"},
				Tags:        []string{"model"},
			},
			{
				TaskType:    "list-recipes",
				DisplayName: "List recipes",
				Description: "HTTP listing of the recipe catalogue",
				Transports:  []Transport{TransportHTTP},
				Route:       "GET /recipes",
				Parameters:  []string{"category"},
				ErrorCodes:  []string{"COLLABORATOR_FAILURE"},
			},
			{
				TaskType:    "get-recipe",
				DisplayName: "Get recipe",
				Description: "HTTP lookup of one recipe by id",
				Transports:  []Transport{TransportHTTP},
				Route:       "GET /recipes/{recipe_id}",
				Parameters:  []string{"recipe_id"},
				ErrorCodes:  []string{"MISSING_FIELD", "NOT_FOUND", "COLLABORATOR_FAILURE"},
			},
			{
				TaskType:    "create-recipe",
				DisplayName: "Create recipe",
				Description: "HTTP creation of a recipe with defaults for missing fields",
				Transports:  []Transport{TransportHTTP},
				Route:       "POST /recipes",
				Parameters:  []string{"recipe_id", "name", "category", "cooking_time", "ingredients", "instructions", "recipe_url", "tags"},
				ErrorCodes:  []string{"MISSING_FIELD", "INVALID_SHAPE", "CONFLICT", "COLLABORATOR_FAILURE"},
			},
			{
				TaskType:    "menu-history",
				DisplayName: "Menu history",
				Description: "HTTP read (GET) and save (POST) of menu history",
				Transports:  []Transport{TransportHTTP},
				Route:       "GET,POST /history",
				Parameters:  []string{"days", "date", "meals", "notes", "overwrite"},
				ErrorCodes:  withCodes("CONFLICT", "METHOD_NOT_ALLOWED", "COLLABORATOR_FAILURE"),
			},
		},
	}
}

// LoadRegistry reads a catalogue file. YAML and JSON are both accepted.
func LoadRegistry(path string) (*ActionRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActionRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

func (r *ActionRegistry) Find(taskType string) (Action, bool) {
	for _, a := range r.Actions {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Action{}, false
}

// TaskTypes lists the actions served over t, in catalogue order.
func (r *ActionRegistry) TaskTypes(t Transport) []string {
	var out []string
	for _, a := range r.Actions {
		if a.Supports(t) {
			out = append(out, a.TaskType)
		}
	}
	return out
}

// Validate checks that every action names a task type once, only uses known
// transports and carries a route when it is served over HTTP.
func (r *ActionRegistry) Validate() error {
	if len(r.Actions) == 0 {
		return fmt.Errorf("registry contains no actions")
	}

	seen := make(map[string]bool, len(r.Actions))
	for i, a := range r.Actions {
		if a.TaskType == "" {
			return fmt.Errorf("action %d missing required field: taskType", i)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		seen[a.TaskType] = true

		if a.DisplayName == "" {
			return fmt.Errorf("action %s missing required field: displayName", a.TaskType)
		}
		if len(a.Transports) == 0 {
			return fmt.Errorf("action %s has no transports", a.TaskType)
		}
		for _, t := range a.Transports {
			switch t {
			case TransportAgent, TransportHTTP, TransportZeebe:
			default:
				return fmt.Errorf("action %s: unknown transport %q", a.TaskType, t)
			}
		}
		if a.Supports(TransportHTTP) && a.Route == "" {
			return fmt.Errorf("action %s is served over http but has no route", a.TaskType)
		}
	}
	return nil
}

// SaveRegistry writes reg as YAML, creating the directory if needed.
func SaveRegistry(reg *ActionRegistry, path string) error {
	data, err := yaml.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
