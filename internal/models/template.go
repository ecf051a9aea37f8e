package models

import (
	"sort"
)

// Template is a predefined plan: an ordered task list grouped into lanes
type Template struct {
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	RootID      string         `json:"root_id"`
	Tasks       []TemplateTask `json:"tasks"`
}

// TemplateTask is one row of a template
type TemplateTask struct {
	Phase      string `json:"phase"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Dependency string `json:"dependency,omitempty"`
	Duration   int    `json:"base_duration"`
}

// DefaultTemplate is used by init and reset when no template is named
const DefaultTemplate = "ecommerce"

// ToTasks creates pending tasks with zero deviation from this template
func (t *Template) ToTasks() []Task {
	tasks := make([]Task, len(t.Tasks))
	for i, tt := range t.Tasks {
		tasks[i] = Task{
			ID:           tt.ID,
			Position:     i,
			Phase:        tt.Phase,
			Name:         tt.Name,
			Dependency:   tt.Dependency,
			BaseDuration: tt.Duration,
			Deviation:    0,
			Status:       StatusPending,
		}
	}
	return tasks
}

// Phases returns the lane names in first-appearance order
func (t *Template) Phases() []string {
	var phases []string
	seen := make(map[string]bool)
	for _, tt := range t.Tasks {
		if !seen[tt.Phase] {
			seen[tt.Phase] = true
			phases = append(phases, tt.Phase)
		}
	}
	return phases
}

// LookupTemplate returns the built-in template with the given name
func LookupTemplate(name string) (*Template, bool) {
	t, ok := builtinTemplates[name]
	return t, ok
}

// TemplateNames returns the built-in template names, sorted
func TemplateNames() []string {
	names := make([]string, 0, len(builtinTemplates))
	for name := range builtinTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lanes shared by the built-in templates
var (
	webTasks = []TemplateTask{
		{"Kickoff", "t0", "T0 Kickoff + brief", "", 1},

		{"Technical base", "t1a", "T1A Minimum client access", "t0", 1},
		{"Technical base", "t2", "T2 Platform setup + base SSL", "t1a", 2},
		{"Technical base", "t3", "T3 Page architecture + navigation", "t2", 2},

		{"Design and store", "t4", "T4 UI design (home + store/product)", "t3", 3},
		{"Design and store", "t5", "T5 Catalog (categories/attributes/stock)", "t4", 2},
		{"Design and store", "t6", "T6 Cart + checkout (full flow)", "t5", 2},

		{"Integrations", "t7", "T7 Payments", "t6", 2},
		{"Integrations", "t8", "T8 Shipping (methods and rules)", "t7", 1},
		{"Integrations", "t9", "T9 Transactional email", "t8", 1},

		{"Content + QA", "t10", "T10 Initial product load (up to 15)", "t9", 2},
		{"Content + QA", "t11", "T11 Functional QA + fixes", "t10", 2},

		{"Support + launch", "t12", "T12 AI chat agent + base FAQ", "t11", 2},
		{"Support + launch", "t13", "T13 Training + short guide", "t12", 1},
		{"Support + launch", "t14", "T14 Go-live + verification", "t13", 1},
	}

	brandTasks = []TemplateTask{
		{"Brand", "m1", "M1 Diagnosis + value proposition", "t0", 1},
		{"Brand", "m2", "M2 Commercial architecture (categories/tone/naming)", "m1", 1},
		{"Brand", "m3", "M3 Identity V0 (provisional, unblocks UI)", "m2", 1},
		{"Brand", "m4", "M4 Identity V1 final (logo + palette + type)", "m3", 2},
		{"Brand", "t1b", "T1B Identity inputs (gathered in meetings)", "t0", 2},
	}

	seoTasks = []TemplateTask{
		{"SEO", "s1", "S1 Technical SEO base (tracking + sitemap/robots)", "t2", 1},
		{"SEO", "s2", "S2 SEO structure (keywords + content)", "t3", 1},
		{"SEO", "s3", "S3 On-page (home + category + product)", "t4", 2},
		{"SEO", "s4", "S4 Post go-live (indexing + verification)", "t14", 1},
	}
)

func lanes(groups ...[]TemplateTask) []TemplateTask {
	var out []TemplateTask
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var builtinTemplates = map[string]*Template{
	"ecommerce": {
		Name:        "ecommerce",
		Title:       "E-commerce + brand + SEO",
		Description: "Web store build with parallel brand and SEO lanes",
		RootID:      DefaultRootID,
		Tasks:       lanes(webTasks, brandTasks, seoTasks),
	},
	"web-seo": {
		Name:        "web-seo",
		Title:       "E-commerce + SEO",
		Description: "Web store build with a parallel SEO lane",
		RootID:      DefaultRootID,
		Tasks:       lanes(webTasks, seoTasks),
	},
	"web": {
		Name:        "web",
		Title:       "E-commerce",
		Description: "Web store build, main chain only",
		RootID:      DefaultRootID,
		Tasks:       lanes(webTasks),
	},
}
