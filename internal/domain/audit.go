package domain

import (
	"fmt"
	"time"
)

// AuditStatus is the outcome recorded for a finished transaction.
type AuditStatus string

// Audit status constants.
const (
	StatusSuccess AuditStatus = "SUCCESS"
	StatusFailed  AuditStatus = "FAILED"
)

// AuditRequest is one user submission. It is never persisted.
// ID correlates the transaction with its HTTP request; Run assigns one when empty.
type AuditRequest struct {
	ID       string `json:"-"        form:"-"`
	Code     string `json:"code"     form:"code"`
	Language string `json:"language" form:"language"`
}

// CodeLength is the character count written to the activity log.
func (r AuditRequest) CodeLength() int {
	return len([]rune(r.Code))
}

// AuditOutcome is what crosses back to the display layer after a transaction.
type AuditOutcome struct {
	ID         string        `json:"id"`
	Language   string        `json:"language"`
	Markdown   string        `json:"markdown,omitempty"`
	Error      string        `json:"error,omitempty"`
	Status     AuditStatus   `json:"status"`
	CodeLength int           `json:"code_length"`
	Duration   time.Duration `json:"-"`
}

// Seconds returns the elapsed time formatted with two decimals.
func (o AuditOutcome) Seconds() string {
	return FormatSeconds(o.Duration)
}

// ActivityRecord is one row of the append-only activity log.
type ActivityRecord struct {
	Time       time.Time     `json:"time"`
	Language   string        `json:"language"`
	CodeLength int           `json:"code_length"`
	Duration   time.Duration `json:"-"`
	Status     AuditStatus   `json:"status"`
}

// ActivityHeader is the fixed first row of a new activity file.
var ActivityHeader = []string{"Time", "Language", "Code Length", "Process Time (s)", "Status"}

// ActivityTimeLayout is the local date-time format of the Time column.
const ActivityTimeLayout = "2006-01-02 15:04:05"

// FormatSeconds renders a duration as seconds with exactly two decimals.
func FormatSeconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.2f", d.Seconds())
}
