package app

import (
	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/store"
)

func q(text string, correct int, level quiz.Level, options ...string) quiz.Question {
	return quiz.Question{Text: text, Options: options, CorrectOption: correct, Difficulty: level}
}

func seedQuizzes() []quiz.Quiz {
	const (
		easy   = quiz.LevelEasy
		medium = quiz.LevelMedium
		hard   = quiz.LevelHard
	)
	return []quiz.Quiz{
		{
			Title: "HTML Mastery Quiz", Category: "Frontend", Difficulty: easy, SkillID: "html-basics",
			Questions: []quiz.Question{
				q("Which tag is used to define an unordered list?", 1, easy, "<ol>", "<ul>", "<li>", "<list>"),
				q("What is the purpose of the <head> tag?", 1, medium, "Main content", "Metadata and title", "Footer links", "Sidebars"),
				q("How do you create an input field for passwords?", 2, medium,
					`<input type="text">`, `<input type="pass">`, `<input type="password">`, `<input type="field">`),
				q("What does the href attribute specify in an anchor tag?", 2, easy, "Text color", "Image source", "Target URL", "Font style"),
				q("Which tag is used for the smallest heading?", 1, easy, "<h1>", "<h6>", "<header>", "<hsmall>"),
			},
		},
		{
			Title: "CSS Flexbox Essentials", Category: "Frontend", Difficulty: medium, SkillID: "css-fundamentals",
			Questions: []quiz.Question{
				q("Which property defines the main axis direction?", 1, medium, "justify-content", "flex-direction", "align-items", "flex-wrap"),
				q("How do you center items along the cross axis?", 2, medium,
					"justify-content: center", "text-align: center", "align-items: center", "flex-center: true"),
				q("What is the default value of flex-direction?", 1, medium, "column", "row", "row-reverse", "initial"),
				q("Which property allows a flex item to grow?", 2, medium, "flex-shrink", "flex-basis", "flex-grow", "flex-expand"),
				q("What value of display enables flexbox?", 2, easy, "block", "inline", "flex", "grid"),
			},
		},
		{
			Title: "CSS Grid Layouts", Category: "Frontend", Difficulty: hard, SkillID: "css-fundamentals",
			Questions: []quiz.Question{
				q("How do you create a 3-column grid with equal width?", 0, hard,
					"grid-template-columns: 1fr 1fr 1fr", "grid-cols: 3", "grid-width: 33%", "display: column-3"),
				q("What does the fr unit represent?", 1, medium, "Fixed Ratio", "Fractional unit", "Font Relative", "Frame Rate"),
				q("How do you span an item across 2 rows?", 1, hard, "row-span: 2", "grid-row: span 2", "grid-height: 2", "span-row: 2"),
				q("Which property creates space between grid cells?", 2, medium, "margin", "padding", "gap", "spacing"),
			},
		},
		{
			Title: "JS Scope & Closures", Category: "Language", Difficulty: medium, SkillID: "javascript-core",
			Questions: []quiz.Question{
				q("What does a closure capture?", 1, medium,
					"A copy of every value", "Variables of its enclosing scope", "Only global variables", "Nothing"),
				q("Which keyword declares a block-scoped variable?", 2, easy, "var", "function", "let", "global"),
				q("What is hoisted with its initializer?", 0, hard, "function declarations", "let bindings", "const bindings", "class bodies"),
				q("What does an IIFE create?", 1, medium, "A global", "A private scope", "A promise", "A module"),
			},
		},
		{
			Title: "Asynchronous JS", Category: "Language", Difficulty: hard, SkillID: "javascript-core",
			Questions: []quiz.Question{
				q("What does an async function always return?", 2, medium, "undefined", "A callback", "A Promise", "A generator"),
				q("Which runs first: a resolved promise callback or a setTimeout(0) callback?", 0, hard,
					"The promise callback", "The timeout callback", "Either, at random", "Neither runs"),
				q("Which combinator settles when every promise settles?", 3, hard,
					"Promise.race", "Promise.any", "Promise.all", "Promise.allSettled"),
			},
		},
		{
			Title: "React Fundamentals", Category: "Framework", Difficulty: easy, SkillID: "react-development",
			Questions: []quiz.Question{
				q("What does JSX compile to?", 1, easy, "HTML strings", "React.createElement calls", "Web components", "CSS"),
				q("Which hook holds local component state?", 0, easy, "useState", "useEffect", "useRef", "useMemo"),
				q("What is a controlled component?", 1, medium,
					"Component with its own DOM state", "Component whose value is driven by React state", "Unstyled component", "None"),
				q("Feature for code splitting in React?", 0, hard, "React.lazy() and Suspense", "React.chunk", "Import-React", "None"),
			},
		},
		{
			Title: "Express.js Routing", Category: "Backend", Difficulty: easy, SkillID: "nodejs-backend",
			Questions: []quiz.Question{
				q("How do you define a GET route in Express?", 1, easy, "app.post()", "app.get()", `app.route("GET")`, "app.fetch()"),
				q("Which object represents the outgoing data?", 1, easy, "req", "res", "next", "data"),
				q("What is req.params used for?", 1, medium, "Query strings", "URL parameters", "Request body", "Headers"),
				q("What does app.use() do?", 1, medium, "Starts the server", "Adds middleware", "Connects to DB", "Defines a model"),
			},
		},
		{
			Title: "SQL Fundamentals", Category: "Database", Difficulty: medium,
			Questions: []quiz.Question{
				q("Which clause filters grouped rows?", 2, medium, "WHERE", "ORDER BY", "HAVING", "LIMIT"),
				q("Which join keeps every row of the left table?", 1, medium, "INNER JOIN", "LEFT JOIN", "CROSS JOIN", "SELF JOIN"),
				q("What does an index mainly speed up?", 0, easy, "Lookups", "Inserts", "Backups", "Schema changes"),
			},
		},
	}
}

var seedCircles = []store.Circle{
	{Name: "JS Logic Masters", Members: 154, Icon: "Users", Description: "Deep dive into JS engines and logic.", Suggested: true},
	{Name: "Neural Network Hub", Members: 82, Icon: "ShieldCheck", Description: "AI and machine learning discussions."},
	{Name: "Full Stack Squad", Members: 210, Icon: "Users", Description: "End-to-end web architecture.", Suggested: true},
	{Name: "Cyber Guardians", Members: 45, Icon: "ShieldCheck", Description: "Security protocols and hacking defense."},
	{Name: "Python Wizards", Members: 120, Icon: "Users", Description: "Automation and data science with Python."},
	{Name: "React Pro Group", Members: 305, Icon: "BrainCircuit", Description: "Advanced React patterns and performance.", Suggested: true},
}

var seedBooks = []store.Book{
	{
		Title: "Eloquent JavaScript", Author: "Marijn Haverbeke", Category: "Programming", Rating: 4.8, Pages: 472,
		Description: "A modern introduction to programming and JavaScript, from basic syntax to functional programming.",
		Content:     "JavaScript is a versatile language that powers the web. It started as a simple scripting tool but has grown into a powerhouse for both frontend and backend development.",
	},
	{
		Title: "Cracking the Coding Interview", Author: "Gayle Laakmann McDowell", Category: "Career", Rating: 4.9, Pages: 687,
		Description: "189 programming questions and solutions for technical interviews, from binary trees to scaling systems.",
		Content:     "Technical interviews are about more than just coding; they're about problem-solving and communication.",
	},
	{
		Title: "You Don't Know JS Yet", Author: "Kyle Simpson", Category: "Programming", Rating: 4.7, Pages: 250,
		Description: "The core mechanisms of the JavaScript language, starting with the basic building blocks.",
		Content:     "Most developers learn enough JS to get by, but few truly understand how the engine works.",
	},
	{
		Title: "Clean Code", Author: "Robert C. Martin", Category: "Best Practices", Rating: 4.8, Pages: 464,
		Description: "A handbook of agile software craftsmanship: code that is easy to read, maintain and refactor.",
		Content:     "Writing code is easy; writing clean code is hard. Clean code looks like well-written prose.",
	},
	{
		Title: "Understanding Machine Learning", Author: "Shai Shalev-Shwartz", Category: "AI/ML", Rating: 4.6, Pages: 440,
		Description: "A theoretical foundation for machine learning, from the PAC model to neural networks.",
		Content:     "Machine learning is the study of algorithms that improve through experience.",
	},
	{
		Title: "Fullstack React", Author: "Anthony Accomazzo", Category: "Development", Rating: 4.7, Pages: 825,
		Description: "The complete guide to building production-ready applications with React.",
		Content:     "React has revolutionized the way we build user interfaces with a declarative approach and a virtual DOM.",
	},
	{
		Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Category: "Philosophy", Rating: 4.9, Pages: 352,
		Description: "Cuts through the specialization of modern software development to examine the core process.",
		Content:     "A pragmatic programmer takes charge of their own career. Tools come and go, but the principles remain.",
	},
}

var seedPosts = []store.Post{
	{
		Author: "Aryan Sharma", Role: "Student", Likes: 12, Comments: 2, Topic: "Development", Color: "#61DBFB",
		Content: "Just finished the React Development module! The project-based learning really helps.",
	},
	{
		Author: "Aesha Patel", Role: "Admin", Likes: 25, Comments: 5, Topic: "Announcement", Color: "#FF4D4D",
		Content: "Welcome to the new ALME platform! Feel free to explore the library and join study circles.",
	},
	{
		Author: "Rahul Verma", Role: "Student", Likes: 8, Comments: 10, Topic: "Collaboration", Color: "#F7DF1E",
		Content: "Does anyone want to team up for the 'JS Logic Masters' circle challenges?",
	},
}

