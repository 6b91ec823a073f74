// Package template resolves prompt placeholders against runtime values.
//
// Two placeholder forms exist: {input} for the original user input and
// {<node-id>} for the output of a predecessor node. Placeholders that name a
// node with no recorded output are left verbatim so the model sees the raw
// marker instead of the whole node aborting. Literal braces in input text
// are not escaped; a user input containing "{input}" will itself be
// substituted on a second pass of the same template. Known limitation.
package template

import "strings"

// InputPlaceholder is the marker replaced with the original user input.
const InputPlaceholder = "{input}"

// Resolve substitutes every {input} occurrence with input, then every
// {<node-id>} occurrence with the matching entry of outputs. It is pure and
// deterministic; outputs is never mutated.
func Resolve(tmpl, input string, outputs map[string]string) string {
	resolved := strings.ReplaceAll(tmpl, InputPlaceholder, input)
	for id, out := range outputs {
		resolved = strings.ReplaceAll(resolved, "{"+id+"}", out)
	}
	return resolved
}
