package market

import (
	"strings"

	"github.com/joelkehle/ideavalidation/internal/dna"
	"github.com/joelkehle/ideavalidation/internal/lexical"
)

// Category is a crowded market. Saturation is the share of the category
// already held by incumbents.
type Category struct {
	Name        string
	Saturation  float64
	Competitors []string

	phrases *lexical.Set
	combo   func(text string, d dna.BusinessDNA) bool
}

var crowded = []Category{
	{
		Name: "project management", Saturation: 0.92,
		Competitors: []string{"Asana", "Monday.com", "Trello", "Jira", "ClickUp"},
		phrases:     lexical.MustCompile(lexical.Lit("project management", 1, ""), lexical.Lit("task management", 1, ""), lexical.Re(`\bkanban\b`, 1, "")),
	},
	{
		Name: "crm", Saturation: 0.9,
		Competitors: []string{"Salesforce", "HubSpot", "Pipedrive", "Zoho CRM"},
		phrases:     lexical.MustCompile(lexical.Re(`\bcrm\b`, 1, ""), lexical.Lit("customer relationship management", 1, "")),
	},
	{
		Name: "food delivery", Saturation: 0.9,
		Competitors: []string{"DoorDash", "Uber Eats", "Grubhub", "Instacart"},
		phrases:     lexical.MustCompile(lexical.Lit("food delivery", 1, ""), lexical.Lit("restaurant delivery", 1, "")),
		combo: func(text string, d dna.BusinessDNA) bool {
			return d.Industry == "food_beverage" && d.BusinessModel == dna.ModelMarketplace && strings.Contains(text, "deliver")
		},
	},
	{
		Name: "ride sharing", Saturation: 0.92,
		Competitors: []string{"Uber", "Lyft", "Bolt"},
		phrases:     lexical.MustCompile(lexical.Lit("ride sharing", 1, ""), lexical.Lit("ride-sharing", 1, ""), lexical.Lit("rideshare", 1, ""), lexical.Lit("ride hailing", 1, "")),
		combo: func(text string, d dna.BusinessDNA) bool {
			return d.Industry == "transportation" && d.CustomerType == dna.CustomerMarketplace && strings.Contains(text, "ride")
		},
	},
	{
		Name: "dating app", Saturation: 0.85,
		Competitors: []string{"Tinder", "Bumble", "Hinge"},
		phrases:     lexical.MustCompile(lexical.Lit("dating app", 1, ""), lexical.Lit("dating platform", 1, ""), lexical.Lit("matchmaking app", 1, "")),
	},
	{
		Name: "social media", Saturation: 0.88,
		Competitors: []string{"Instagram", "TikTok", "X", "Facebook"},
		phrases:     lexical.MustCompile(lexical.Lit("social media", 1, ""), lexical.Lit("social network", 1, "")),
	},
	{
		Name: "meal kit", Saturation: 0.8,
		Competitors: []string{"HelloFresh", "Blue Apron", "Home Chef"},
		phrases:     lexical.MustCompile(lexical.Lit("meal kit", 1, ""), lexical.Lit("meal-kit", 1, "")),
	},
	{
		Name: "note taking", Saturation: 0.85,
		Competitors: []string{"Notion", "Evernote", "Obsidian", "Apple Notes"},
		phrases:     lexical.MustCompile(lexical.Lit("note taking", 1, ""), lexical.Lit("note-taking", 1, ""), lexical.Lit("notes app", 1, "")),
	},
	{
		Name: "email marketing", Saturation: 0.82,
		Competitors: []string{"Mailchimp", "Klaviyo", "ConvertKit"},
		phrases:     lexical.MustCompile(lexical.Lit("email marketing", 1, ""), lexical.Lit("newsletter tool", 1, "")),
	},
	{
		Name: "fitness app", Saturation: 0.78,
		Competitors: []string{"MyFitnessPal", "Strava", "Peloton", "Nike Training Club"},
		phrases:     lexical.MustCompile(lexical.Lit("fitness app", 1, ""), lexical.Lit("workout app", 1, ""), lexical.Lit("fitness tracking", 1, "")),
	},
}

// Saturation returns the most saturated crowded category the idea falls
// into, if any.
func Saturation(text string, d dna.BusinessDNA) (Category, bool) {
	lower := strings.ToLower(text)
	var best Category
	found := false
	for _, c := range crowded {
		_, hit := c.phrases.Matches(lower)
		if !hit && c.combo != nil {
			hit = c.combo(lower, d)
		}
		if hit && (!found || c.Saturation > best.Saturation) {
			best, found = c, true
		}
	}
	return best, found
}

// applyDensity clamps competition for crowded categories and merges the
// named incumbents into the notable competitors.
func applyDensity(mi Intelligence, text string, d dna.BusinessDNA) Intelligence {
	c, ok := Saturation(text, d)
	if !ok {
		return mi
	}
	ceiling := 10 * (1 - c.Saturation)
	if mi.CompetitionLevel > ceiling {
		mi.CompetitionLevel = ceiling
	}
	mi.SaturationCategory = c.Name
	mi.Saturation = c.Saturation
	seen := make(map[string]bool, len(mi.NotableCompetitors))
	for _, n := range mi.NotableCompetitors {
		seen[strings.ToLower(n)] = true
	}
	for _, n := range c.Competitors {
		if !seen[strings.ToLower(n)] {
			mi.NotableCompetitors = append(mi.NotableCompetitors, n)
		}
	}
	return mi
}
