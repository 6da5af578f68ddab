package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SiteContent is the HTML/CSS/JS triple a successful generation yields.
// Fields missing from the model output default to the empty string, never null.
type SiteContent struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// ErrUnparseableResponse marks a model response with no JSON object inside.
var ErrUnparseableResponse = errors.New("genai: no JSON object found in model response")

// siteContentSchema rejects payloads whose html/css/js values are not strings.
// Keys are optional; absence is handled by the zero value.
const siteContentSchema = `{
	"type": "object",
	"properties": {
		"html": {"type": "string"},
		"css":  {"type": "string"},
		"js":   {"type": "string"}
	}
}`

var siteContentSchemaLoader = gojsonschema.NewStringLoader(siteContentSchema)

// ExtractSiteContent pulls the site-content JSON object out of a free-form
// model response. Hosted models rarely emit pure JSON, so this scans for the
// first '{' and the last '}' and parses the inclusive substring, tolerating
// prose before and after the payload. Nested braces inside string values can
// defeat the scan; the schema check catches most of those cases after parse.
func ExtractSiteContent(raw string) (SiteContent, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return SiteContent{}, ErrUnparseableResponse
	}

	payload := raw[start : end+1]

	result, err := gojsonschema.Validate(siteContentSchemaLoader, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return SiteContent{}, fmt.Errorf("genai: parse extracted payload: %w", err)
	}
	if !result.Valid() {
		return SiteContent{}, fmt.Errorf("genai: extracted payload rejected: %s", joinSchemaErrors(result))
	}

	var content SiteContent
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		return SiteContent{}, fmt.Errorf("genai: decode extracted payload: %w", err)
	}
	return content, nil
}

func joinSchemaErrors(result *gojsonschema.Result) string {
	parts := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		parts = append(parts, desc.String())
	}
	return strings.Join(parts, "; ")
}
