package report

import "fmt"

// The prompt template is data, not behavior: the enumerated section
// order is a contract with the renderer, which relies on the markdown
// section breaks the model mirrors back.
const promptTemplate = `You are a helpful medical assistant for LifeLink AI, a health monitoring system.

Analyze the following health report and provide a clear, easy-to-understand summary for the patient.

Health Report:
%s

Please provide:
1. **Key Findings**: Main health indicators and their values
2. **What This Means**: Explain in simple, non-technical language what these results indicate
3. **Recommendations**: Basic health advice based on the report (general wellness tips only, not medical prescriptions)
4. **Important Notes**: Any values that seem out of normal range (mark with %s if concerning)

Write in a friendly, reassuring tone. Avoid complex medical jargon. Use bullet points for clarity.%s

Note: This is an AI-generated summary and should not replace professional medical advice.`

const translationDirective = "\n\nIMPORTANT: Translate the entire summary into %s language. Use simple, everyday %s words that anyone can understand."

// WarningGlyph flags out-of-range values in generated summaries.
const WarningGlyph = "⚠️"

// BuildPrompt renders the summarization prompt for a report body. The
// translation directive is appended only for non-default languages.
func BuildPrompt(reportText string, lang Language) string {
	instruction := ""
	if lang != DefaultLanguage {
		instruction = fmt.Sprintf(translationDirective, lang, lang)
	}
	return fmt.Sprintf(promptTemplate, reportText, WarningGlyph, instruction)
}
