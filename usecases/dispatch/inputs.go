package dispatch

import (
	"regexp"
)

var dataRefPattern = regexp.MustCompile(`\{\{\s*data\.([a-zA-Z0-9_]+)\s*\}\}`)

// renderInputs replaces every {{data.x}} reference with the matching event value.
// Literal inputs are passed through and unknown references render empty.
func renderInputs(inputs map[string]string, data map[string]string) map[string]string {
	rendered := make(map[string]string, len(inputs))
	for name, value := range inputs {
		rendered[name] = dataRefPattern.ReplaceAllStringFunc(value, func(ref string) string {
			return data[dataRefPattern.FindStringSubmatch(ref)[1]]
		})
	}
	return rendered
}
