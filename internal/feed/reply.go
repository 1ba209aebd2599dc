package feed

import (
	"fmt"
	"strings"

	"github.com/alme-learn/alme/internal/llm"
)

// replySchema constrains the assistant to a single plain-text reply.
var replySchema = &llm.Schema{
	Name:        "post-reply",
	Description: "A short educational reply to a network post",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{
				"type":        "string",
				"description": "Helpful, encouraging answer in 3-4 sentences, no markdown",
			},
		},
		"required":             []any{"reply"},
		"additionalProperties": false,
	},
}

const replySystemPrompt = `You are ALME AI, an intelligent academic assistant on a learning platform.
Students and researchers post questions and topics on the network; you reply to each post.

Rules:
- Be helpful, concise and educational: at most 3-4 sentences.
- If the post is a question, answer it clearly.
- If it is a topic or keyword, give a brief informative explanation.
- Be friendly and encouraging.
- Do NOT use markdown formatting.`

type replyOutput struct {
	Reply string `json:"reply"`
}

func buildReplyUserMessage(content string) string {
	return fmt.Sprintf("A student posted the following on the network:\n\n%q", content)
}

// fallbackTopics are checked in order against the lowercased post; the first
// topic with a matching keyword wins. Keywords match as substrings.
var fallbackTopics = []struct {
	keywords []string
	reply    string
}{
	{
		[]string{"javascript", "js"},
		"JavaScript is a versatile programming language primarily used for web development. " +
			"It enables interactive web pages and is an essential part of web applications alongside HTML and CSS. " +
			"Keep exploring and building projects!",
	},
	{
		[]string{"python"},
		"Python is a high-level, interpreted programming language known for its simplicity and readability. " +
			"It is widely used in data science, AI, web development, and automation. A great language to master!",
	},
	{
		[]string{"java"},
		"Java is a robust, object-oriented programming language used for building enterprise applications, " +
			"Android apps, and large-scale systems. Its \"write once, run anywhere\" philosophy makes it highly portable.",
	},
	{
		[]string{"react"},
		"React is a popular JavaScript library for building user interfaces, especially single-page applications. " +
			"It uses a component-based architecture and virtual DOM for efficient rendering.",
	},
	{
		[]string{"ai", "machine learning", "ml"},
		"AI and Machine Learning are transforming how we interact with technology. " +
			"From natural language processing to computer vision, the possibilities are endless. " +
			"Keep learning and experimenting!",
	},
}

// FallbackReply returns the canned reply used when no language model is
// configured or the model call fails.
func FallbackReply(content string) string {
	lower := strings.ToLower(strings.TrimSpace(content))
	for _, t := range fallbackTopics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.reply
			}
		}
	}
	return fmt.Sprintf("Great topic! %q is an interesting area of study. "+
		"Keep exploring and sharing your insights with the community. "+
		"The ALME platform is here to support your learning journey!", content)
}
