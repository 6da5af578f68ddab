package worker

import (
	"fmt"
	"html"
	"strings"
)

// ComposeStandaloneHTML folds the generated markup, stylesheet and script
// into one self-contained document suitable for static hosting.
//
// Generated markup is usually a body fragment, but some models return a
// complete document. In that case the style and script are injected into
// the existing document instead of wrapping it a second time.
func ComposeStandaloneHTML(title, htmlContent, cssContent, jsContent string) string {
	if isFullDocument(htmlContent) {
		return injectIntoDocument(htmlContent, cssContent, jsContent)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	if strings.TrimSpace(cssContent) != "" {
		b.WriteString("<style>\n")
		b.WriteString(cssContent)
		b.WriteString("\n</style>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(htmlContent)
	b.WriteString("\n")
	if strings.TrimSpace(jsContent) != "" {
		b.WriteString("<script>\n")
		b.WriteString(jsContent)
		b.WriteString("\n</script>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func isFullDocument(htmlContent string) bool {
	lower := strings.ToLower(htmlContent)
	return strings.Contains(lower, "<html")
}

func injectIntoDocument(doc, cssContent, jsContent string) string {
	if strings.TrimSpace(cssContent) != "" {
		styleBlock := "<style>\n" + cssContent + "\n</style>"
		if idx := indexFold(doc, "</head>"); idx >= 0 {
			doc = doc[:idx] + styleBlock + "\n" + doc[idx:]
		} else {
			doc = styleBlock + "\n" + doc
		}
	}
	if strings.TrimSpace(jsContent) != "" {
		scriptBlock := "<script>\n" + jsContent + "\n</script>"
		if idx := indexFold(doc, "</body>"); idx >= 0 {
			doc = doc[:idx] + scriptBlock + "\n" + doc[idx:]
		} else {
			doc = doc + "\n" + scriptBlock
		}
	}
	return doc
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}
