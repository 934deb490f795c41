package docgen

import (
	"fmt"
	"strings"
)

const (
	noRelatedModulesPlaceholderConstant = "None detected"
	relatedModuleEntryTemplateConstant  = "- %s"
)

const documentationPromptTemplateConstant = `
You are a senior software architect and technical writer.
Generate professional documentation.

# File
%s

# Related Modules
List of source files that this file imports or depends on:
%s

# Source Code
%s

# Documentation Requirements (IMPORTANT)
Write extremely high-quality documentation using the following sections:

## Overview
A concise overview of what this module does and why it exists.

## Key Concepts
Summaries of important ideas, algorithms, or patterns used in this module.

## Main Classes & Functions
Describe each important class or function:
- Purpose
- Parameters
- Return values
- Behavior details
- Side effects

## Module Relationships
Explain how this file interacts with the modules listed above.
Describe:
- What it imports
- How it uses those modules
- Whether it acts as a core component, helper, utility, etc.

## Usage Examples
Provide example usage based on best-guess behavior from the code.

## Notes for Developers
Add professional insights:
- design choices
- extension points
- risks
- performance notes

# Output Format
Your entire output MUST be clean Markdown, highly structured, and professional.
`

// BuildDocumentationPrompt renders the chat prompt for one source file,
// listing its related modules or a placeholder when none were detected.
func BuildDocumentationPrompt(filePath string, sourceCode string, relatedModules []string) string {
	relatedText := noRelatedModulesPlaceholderConstant
	if len(relatedModules) > 0 {
		relatedLines := make([]string, 0, len(relatedModules))
		for _, relatedModule := range relatedModules {
			relatedLines = append(relatedLines, fmt.Sprintf(relatedModuleEntryTemplateConstant, relatedModule))
		}
		relatedText = strings.Join(relatedLines, "\n")
	}
	return fmt.Sprintf(documentationPromptTemplateConstant, filePath, relatedText, sourceCode)
}
