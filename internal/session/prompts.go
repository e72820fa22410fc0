package session

import (
	"fmt"
	"strings"
)

// RaterSystemPrompt grounds the assistant when supporting content raters.
const RaterSystemPrompt = `You are an AI assistant helping content raters make accurate and consistent ratings. Your role is to:

1. Guideline Expertise: Help raters understand and apply rating guidelines correctly
2. Quality Assurance: Suggest ratings based on established criteria and best practices
3. Consistency: Ensure ratings are consistent with similar content and guidelines
4. Educational Support: Explain reasoning behind rating suggestions to help raters learn

Key Principles:
- Always reference specific guideline sections when possible
- Provide clear, actionable reasoning for your suggestions
- Maintain objectivity and avoid personal opinions
- Help raters identify edge cases and nuanced situations
- Encourage critical thinking while providing guidance

When analyzing content for rating:
- Consider relevance, accuracy, and appropriateness
- Evaluate content quality and authenticity indicators
- Check for potential policy violations or safety concerns
- Assess user experience and value proposition
- Look for context clues and intent

Always include confidence levels and cite relevant guidelines in your responses.`

// QCSystemPrompt grounds the assistant when supporting QC reviewers.
const QCSystemPrompt = `You are an AI assistant helping QC reviewers efficiently and accurately review rater submissions. Your role is to:

1. Quality Analysis: Identify discrepancies between rater assessments and expected outcomes
2. Pattern Recognition: Detect systematic issues in rater performance and behavior
3. Evidence Gathering: Compile relevant evidence and guideline references for decisions
4. Feedback Generation: Help craft constructive feedback for raters
5. Risk Assessment: Evaluate the risk level of rating errors and their potential impact

Key Functions:
- Compare rater submissions against guidelines and historical patterns
- Identify potential areas of concern or excellence in rater performance
- Suggest appropriate actions (feedback, training, escalation)
- Provide detailed reasoning for flagging decisions
- Help prioritize review queues based on risk and impact

When analyzing rater submissions:
- Focus on accuracy, consistency, and adherence to guidelines
- Consider the rater's historical performance and learning trajectory
- Evaluate the complexity and ambiguity of the specific task
- Assess potential impact of rating errors on end users or business goals
- Look for opportunities to provide constructive, educational feedback

Include confidence scores, supporting evidence, and recommended actions in your analysis.`

// buildChatPrompt renders the full prompt for a conversational turn: system
// prompt, optional guidelines block, transcript so far, closing instruction.
// The guidelines block is omitted entirely when guidelines is empty.
func buildChatPrompt(systemPrompt, guidelines string, turns []Turn) string {
	var history strings.Builder
	for i, turn := range turns {
		if i > 0 {
			history.WriteString("\n")
		}
		if turn.Role == RoleUser {
			history.WriteString("User: ")
		} else {
			history.WriteString("Assistant: ")
		}
		history.WriteString(turn.Text)
	}

	context := ""
	if guidelines != "" {
		context = "\n\nAvailable Guidelines:\n" + guidelines
	}

	return fmt.Sprintf(`%s%s

Conversation History:
%s

Please respond as a helpful AI assistant. Include confidence score and relevant sources in your response.`,
		systemPrompt, context, history.String())
}

// buildRatingPrompt renders the one-shot rating analysis prompt.
func buildRatingPrompt(systemPrompt, guidelines, taskContent string) string {
	context := ""
	if guidelines != "" {
		context = "\n\nGuidelines:\n" + guidelines
	}

	return fmt.Sprintf(`%s%s

Task Content to Analyze:
%s

Please provide a rating analysis including:
1. Suggested rating with reasoning
2. Confidence level (0-100)
3. Key factors considered
4. Relevant guideline references

Format your response clearly with specific recommendations.`,
		systemPrompt, context, taskContent)
}

// buildDetailedPrompt renders the detailed analysis prompt with a
// type-specific focus line for rater vs QC use.
func buildDetailedPrompt(systemPrompt, guidelines, content, analysisType string) string {
	context := ""
	if guidelines != "" {
		context = "\n\nGuidelines:\n" + guidelines
	}

	focus := "Focus on quality control and discrepancy identification."
	if analysisType == AnalysisTypeRater {
		focus = "Focus on rating guidance and authenticity assessment."
	}

	return fmt.Sprintf(`%s%s

%s

Content to Analyze:
%s

Please provide a detailed analysis with:
1. Clear rating recommendation or QC assessment
2. Confidence level (0-100)
3. Detailed reasoning with specific factors
4. Relevant guideline references
5. Any red flags or concerns
6. Recommended next steps

Format your response clearly and professionally.`,
		systemPrompt, context, focus, content)
}
