package catalog

var builtinRoles = []Role{
	{
		ID:          "developer",
		Title:       "Developer",
		Description: "Write code, debug issues, and build features in a simulated IDE environment.",
		Icon:        "code-bracket",
		Color:       "blue",
		Tasks: []string{
			"Fix a bug in a React component",
			"Implement a new API endpoint",
			"Optimize database queries",
			"Create a responsive layout",
			"Write unit tests for a function",
		},
	},
	{
		ID:          "designer",
		Title:       "Designer",
		Description: "Create UI designs, mockups, and visual assets in a simulated design environment.",
		Icon:        "paint-brush",
		Color:       "purple",
		Tasks: []string{
			"Design a landing page",
			"Create a logo for a brand",
			"Design a mobile app interface",
			"Create an icon set",
			"Design a color palette",
		},
	},
	{
		ID:          "pm",
		Title:       "Project Manager",
		Description: "Plan projects, manage resources, and track progress in a simulated PM environment.",
		Icon:        "clipboard-document-list",
		Color:       "green",
		Tasks: []string{
			"Create a project timeline",
			"Allocate resources to tasks",
			"Manage stakeholder expectations",
			"Handle scope changes",
			"Conduct a sprint planning session",
		},
	},
	{
		ID:          "data",
		Title:       "Data Analyst",
		Description: "Analyze data, create visualizations, and derive insights in a simulated data environment.",
		Icon:        "chart-pie",
		Color:       "yellow",
		Tasks: []string{
			"Clean and prepare a dataset",
			"Create data visualizations",
			"Perform statistical analysis",
			"Build a dashboard",
			"Generate a report with insights",
		},
	},
	{
		ID:          "ai",
		Title:       "AI Engineer",
		Description: "Design prompts, fine-tune models, and create AI applications in a simulated AI environment.",
		Icon:        "cpu-chip",
		Color:       "red",
		Tasks: []string{
			"Design effective prompts",
			"Debug AI model outputs",
			"Create a chatbot workflow",
			"Implement content moderation",
			"Optimize token usage",
		},
	},
}

// Builtin returns a catalog of the stock roles. Each call returns fresh
// copies so callers cannot alter another catalog's data.
func Builtin() *Catalog {
	roles := make([]*Role, len(builtinRoles))
	for i := range builtinRoles {
		r := builtinRoles[i]
		r.Tasks = append([]string(nil), r.Tasks...)
		roles[i] = &r
	}

	c, err := New(roles...)
	if err != nil {
		panic(err)
	}
	return c
}
