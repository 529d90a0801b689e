package prompts

import "fmt"

const explainTemplate = `You are an assistant helping non-technical users understand code used in a data analysis app.

Please explain the logic of the code below in no more than 4 short, plain-English bullet points. Do not use programming jargon.

Focus only on what the code does - not how or why.

Question:
"%s"

Code:
%s`

// ExplainPrompt builds the plain-English explanation prompt for a generated snippet.
func ExplainPrompt(question, code string) string {
	return fmt.Sprintf(explainTemplate, question, code)
}
