package prompt

import (
	"fmt"
	"strings"
)

const referenceSheetTemplate = `Create a highly compressed Science Olympiad reference sheet from the analysis below.

Constraints:
- Cover every topic and skill in the analysis.
- Plain text only.
- Aggressively compact format suitable for two letter-sized pages at 6pt.
- Include topic map, key facts/formulas, traps, fast solving patterns, mini examples, and final checklist.

Analysis to transform:
%s`

// ReferenceSheet renders the instruction that turns an analysis into a reference sheet.
func ReferenceSheet(analysis string) string {
	return fmt.Sprintf(referenceSheetTemplate, analysis)
}

// Instruction lays out a prompt and response in the format adapters are trained on.
// With an empty response it is the generation prompt for the same format.
func Instruction(prompt, response string) string {
	return "### Instruction\n" + prompt + "\n\n### Response\n" + response
}

// Evaluation is the short prompt used for held-out generations.
func Evaluation(analysis string) string {
	return "Analysis to transform:\n" + strings.TrimSpace(analysis)
}
