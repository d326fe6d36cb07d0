package suggest

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"kondate-planner/internal/menu"
	"kondate-planner/internal/models"
)

// MaxRecentRecipes caps how many recently served recipes the prompt lists.
const MaxRecentRecipes = 20

//go:embed prompt.tmpl
var promptText string

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join": strings.Join,
	"category": func(c string) string {
		if c == "" {
			return models.DefaultCategory
		}
		return c
	},
	"minutes": func(n int) string {
		if n <= 0 {
			return "不明"
		}
		return strconv.Itoa(n)
	},
}).Parse(promptText))

type PromptData struct {
	Days    int
	Dates   []string
	Recipes []models.Recipe
	Recent  []string
}

// NewPromptData lays out days consecutive dates starting at start.
func NewPromptData(start time.Time, days int, recipes []models.Recipe, recent []string) PromptData {
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(menu.DateLayout))
	}
	return PromptData{Days: days, Dates: dates, Recipes: recipes, Recent: recent}
}

func BuildPrompt(data PromptData) (string, error) {
	if len(data.Dates) == 0 {
		return "", fmt.Errorf("prompt needs at least one date")
	}
	var b strings.Builder
	if err := promptTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}

// RecentRecipes collects distinct recipe ids from history, newest record
// first, stopping at limit.
func RecentRecipes(history []models.MenuHistory, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, record := range history {
		for _, id := range record.Recipes {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
