// Package guidelines carries the seed guideline documents used when no
// knowledge-base document has been indexed for an organization.
package guidelines

const RaterTitle = "Product Review Rating Guidelines v2.1"

const RaterContent = `# Product Review Rating Guidelines v2.1

## Overview
These guidelines help raters assess product reviews for authenticity, helpfulness, and policy compliance.

## Rating Criteria

### 1. Authenticity (Weight: 40%)
- Excellent (90-100%): Specific product details, balanced perspective, natural language
- Good (70-89%): Some specific details, mostly natural language, minor generic aspects
- Fair (50-69%): Mix of specific and generic content, some authenticity concerns
- Poor (0-49%): Generic language, suspicious patterns, likely fake

### 2. Helpfulness (Weight: 30%)
- Excellent: Detailed experience, pros/cons, specific use cases, helpful to buyers
- Good: Clear experience sharing, some useful details
- Fair: Basic information, limited helpfulness
- Poor: No useful information, irrelevant content

### 3. Policy Compliance (Weight: 30%)
- Excellent: Fully compliant, appropriate content
- Good: Minor style issues, generally appropriate
- Fair: Some policy concerns, borderline content
- Poor: Clear policy violations, inappropriate content

## Red Flags
- Excessive positive language without specifics
- Generic product descriptions copied from listings
- Suspicious timing patterns (multiple reviews same day)
- Incentivized review indicators
- Off-topic or irrelevant content
- Personal attacks or inappropriate language

## Special Cases
- Verified Purchase Badge: Add +10 points to authenticity score
- Photo/Video Evidence: Add +5 points to helpfulness score
- Detailed Usage Timeline: Indicates higher authenticity
- Comparative Analysis: Shows genuine product experience

## Decision Framework
1. Read review completely
2. Check for red flags
3. Assess against each criteria
4. Calculate weighted score
5. Consider special case modifiers
6. Make final rating decision
7. Document reasoning for borderline cases`

const QCTitle = "QC Review Guidelines v3.0"

const QCContent = `# QC Review Guidelines v3.0

## Purpose
Quality Control reviews ensure rating accuracy and maintain system integrity through systematic verification.

## QC Process

### 1. Task Prioritization
- High Priority: Accuracy <85%, unusual patterns, policy violations
- Medium Priority: Accuracy 85-92%, inconsistent patterns
- Low Priority: Accuracy >92%, routine verification

### 2. Review Standards
- Compare rater assessment against guidelines
- Evaluate consistency with similar tasks
- Check for systematic errors or biases
- Assess appropriateness of rating level

### 3. Evidence Requirements
All QC actions must include:
- Specific guideline references
- Clear reasoning for disagreement
- Supporting evidence or examples
- Constructive feedback points

### 4. Action Types
- Approve: rating aligns with guidelines, reasoning is sound, no pattern concerns
- Feedback Required: minor errors or inconsistencies, educational opportunities
- Rating Override: clear guideline misapplication, significant accuracy concerns
- Escalation: systematic performance issues, complex edge cases

### 5. Quality Thresholds
- Excellent: 95%+ accuracy, consistent application
- Good: 90-94% accuracy, minor inconsistencies
- Needs Improvement: 85-89% accuracy, training recommended
- Critical: <85% accuracy, immediate intervention required

## Feedback Guidelines
- Be specific and actionable
- Reference exact guideline sections
- Provide examples when possible
- Maintain constructive tone
- Focus on learning and improvement`

// ForAnalysisType returns the seed document for "rater" or "qc" analysis.
// Unknown types fall back to the QC document.
func ForAnalysisType(analysisType string) (title, content string) {
	if analysisType == "rater" {
		return RaterTitle, RaterContent
	}
	return QCTitle, QCContent
}
