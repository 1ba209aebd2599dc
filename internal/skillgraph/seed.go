package skillgraph

// DefaultCurriculum returns the starter web-development track:
// HTML → CSS → JavaScript → {React, Node.js}.
func DefaultCurriculum() []Skill {
	return []Skill{
		{
			ID:         "html-basics",
			Name:       "HTML Basics",
			Category:   CategoryFrontend,
			Difficulty: 2,
		},
		{
			ID:            "css-fundamentals",
			Name:          "CSS Fundamentals",
			Category:      CategoryFrontend,
			Difficulty:    3,
			Prerequisites: []ID{"html-basics"},
		},
		{
			ID:            "javascript-core",
			Name:          "JavaScript Core",
			Category:      CategoryLanguage,
			Difficulty:    5,
			Prerequisites: []ID{"css-fundamentals"},
		},
		{
			ID:            "react-development",
			Name:          "React Development",
			Category:      CategoryFramework,
			Difficulty:    7,
			Prerequisites: []ID{"javascript-core"},
		},
		{
			ID:            "nodejs-backend",
			Name:          "Node.js Backend",
			Category:      CategoryBackend,
			Difficulty:    8,
			Prerequisites: []ID{"javascript-core"},
		},
	}
}
