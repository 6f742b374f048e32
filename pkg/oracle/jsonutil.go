package oracle

import (
	"regexp"
	"strings"
)

// LLM replies wrap JSON in markdown fences, sprinkle // comments, and leave
// trailing commas. The extractors below peel all of that off before
// json.Unmarshal sees the payload.
var (
	jsonBlockPattern      = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	jsonObjectPattern     = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	jsonArrayBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\[.*\\])\\s*```")
	jsonArrayPattern      = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
	trailingCommaPattern  = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON extracts a JSON object from a reply string. Returns "" when
// no object is present.
func ExtractJSON(content string) string {
	if matches := jsonBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		return cleanJSON(matches[1])
	}
	if match := jsonObjectPattern.FindString(content); match != "" {
		return cleanJSON(match)
	}
	return ""
}

// ExtractJSONArray extracts a JSON array from a reply string.
func ExtractJSONArray(content string) string {
	if matches := jsonArrayBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		return cleanJSON(matches[1])
	}
	if match := jsonArrayPattern.FindString(content); match != "" {
		return cleanJSON(match)
	}
	return ""
}

func cleanJSON(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, stripLineComment(line))
	}
	result := strings.Join(cleaned, "\n")
	return trailingCommaPattern.ReplaceAllString(result, "$1")
}

// stripLineComment removes a // comment from a JSON line without touching
// slashes inside string values.
func stripLineComment(line string) string {
	if !strings.Contains(line, "//") {
		return line
	}

	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/' {
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
