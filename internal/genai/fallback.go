package genai

// Fixed site content returned whenever generation or extraction fails.
// Kept deliberately minimal: a placeholder document, a plain stylesheet,
// and a single console log.
const (
	fallbackHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>My Portfolio</title>
</head>
<body>
  <main class="container">
    <h1>My Portfolio</h1>
    <p>Welcome to my portfolio website.</p>
  </main>
</body>
</html>`

	fallbackCSS = `body {
  margin: 0;
  font-family: Arial, Helvetica, sans-serif;
  background: #f5f5f5;
  color: #222;
}
.container {
  max-width: 720px;
  margin: 4rem auto;
  padding: 0 1rem;
  text-align: center;
}`

	fallbackJS = `console.log("Portfolio loaded");`
)

// FallbackContent returns the fixed fallback triple.
func FallbackContent() SiteContent {
	return SiteContent{
		HTML: fallbackHTML,
		CSS:  fallbackCSS,
		JS:   fallbackJS,
	}
}
