package service

import "fmt"

// auditPromptTemplate has two verbs: the output language (used twice) and the code.
// The four "## " sections and their order are part of the contract with the display layer.
const auditPromptTemplate = `
    ROLE: Senior Code Auditor.
    TASK: Audit this code for Fatal Bugs, Security Risks, and Performance.
    OUTPUT LANGUAGE: %[1]s.
    
    FORMAT (Strict Markdown):
    
    ## 📊 Executive Summary
    - **Security:** (0-100) | **Performance:** (0-100)
    - **Verdict:** (Safe/Risky)
    
    ## 🚨 Critical Issues (Brief & Direct)
    - List fatal bugs & security holes.
    
    ## ⚡ Optimization (Speed Fix)
    - How to make it O(1) or O(n)?
    
    ## ✅ Final Fixed Code
    (Provide full working code with comments in %[1]s).
    
    CODE:
    %[2]s
    `

// AuditSections are the headings the model is asked to produce, in order.
var AuditSections = []string{
	"## 📊 Executive Summary",
	"## 🚨 Critical Issues (Brief & Direct)",
	"## ⚡ Optimization (Speed Fix)",
	"## ✅ Final Fixed Code",
}

// BuildAuditPrompt interpolates the snippet and report language into the audit template.
// The result is deterministic for a given input.
func BuildAuditPrompt(code, language string) string {
	return fmt.Sprintf(auditPromptTemplate, language, code)
}
