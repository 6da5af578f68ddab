package genai

import (
	"encoding/json"
	"strings"
)

// systemPrompt pins down the model's role for every generation request.
const systemPrompt = "You are an expert web developer and designer who builds " +
	"polished, single-page personal portfolio websites from resume data."

// promptDirectives is the fixed instruction block appended after the resume
// data. It is never parameterized per request.
const promptDirectives = `Requirements:
- Include EVERY piece of information from the resume data above. Nothing may be omitted.
- Produce a modern, responsive, visually appealing single-page portfolio.
- Use semantic HTML5 with clearly separated sections (about, experience, education, skills, projects, certifications, achievements, languages) for every category that has data.
- The CSS must be self-contained (no external frameworks) and include a pleasant color scheme, typography, and spacing.
- The JS may add light interactivity (smooth scrolling, section reveal) and must not depend on external libraries.
- Respond with EXACTLY ONE JSON object and nothing else, in this shape:
{"html": "<complete body markup>", "css": "<complete stylesheet>", "js": "<complete script>"}
- All three keys are required and every value must be a string.`

// BuildPrompt renders the user prompt for one generation request. The
// structured data is embedded verbatim, so key order follows the input
// representation and identical input produces identical prompt text.
func BuildPrompt(structuredData json.RawMessage) string {
	var b strings.Builder
	b.WriteString("Build a complete personal portfolio website from the following structured resume data:\n\n")
	b.Write(structuredData)
	b.WriteString("\n\n")
	b.WriteString(promptDirectives)
	return b.String()
}

// SystemPrompt exposes the fixed system instruction.
func SystemPrompt() string {
	return systemPrompt
}
