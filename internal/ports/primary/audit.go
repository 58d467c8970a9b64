// Package primary defines the primary ports (driving interfaces) for the
// application, along with the domain types they exchange.
package primary

import "context"

// IssueKind categorizes a configuration problem.
type IssueKind string

const (
	IssueSchema  IssueKind = "schema"
	IssueRLS     IssueKind = "rls"
	IssueStorage IssueKind = "storage"
	IssueError   IssueKind = "error"
)

// RemedyType discriminates the remedy variants.
type RemedyType string

const (
	RemedyNone   RemedyType = ""
	RemedySQL    RemedyType = "sql"
	RemedyAction RemedyType = "action"
)

// ActionCreateBucket is the only symbolic remedy action: create the
// product-images bucket through the storage API.
const ActionCreateBucket = "create_bucket"

// Remedy is the repairing action attached to an Issue. It is a tagged
// variant: a SQL statement, a symbolic storage-API action, or nothing.
type Remedy struct {
	Type   RemedyType `json:"type,omitempty"`
	SQL    string     `json:"sql,omitempty"`
	Action string     `json:"action,omitempty"`
}

// SQLRemedy returns a remedy that executes the given statement verbatim.
func SQLRemedy(statement string) Remedy {
	return Remedy{Type: RemedySQL, SQL: statement}
}

// ActionRemedy returns a remedy that performs a symbolic storage-API action.
func ActionRemedy(action string) Remedy {
	return Remedy{Type: RemedyAction, Action: action}
}

// Issue is one configuration problem found by a probe.
type Issue struct {
	Kind        IssueKind `json:"kind"`
	Description string    `json:"description"`
	Remedy      Remedy    `json:"remedy,omitempty"`
}

// Repairable reports whether the issue carries an automatic remedy.
func (i Issue) Repairable() bool {
	return i.Remedy.Type != RemedyNone
}

// ProbeResult is the outcome of a single probe.
type ProbeResult struct {
	Probe  string  `json:"probe"`
	Issues []Issue `json:"issues,omitempty"`
}

// Report is the ordered outcome of one audit run.
type Report struct {
	RunID string `json:"run_id"`
	Mode  string `json:"mode,omitempty"`

	// Probes holds per-probe results in execution order.
	Probes []ProbeResult `json:"probes"`

	// Issues is the flattened issue list, in discovery order.
	Issues []Issue `json:"issues,omitempty"`

	// ProbeFailed is set when any probe's own query failed.
	ProbeFailed bool `json:"probe_failed,omitempty"`
}

// FixResult records the outcome of remediating one issue.
type FixResult struct {
	Issue   Issue
	Skipped bool
	Err     error
}

// AuditService runs the full probe set against the backend.
type AuditService interface {
	// RunAudit executes every probe in its fixed order. A probe whose own
	// query fails contributes a single error-kind issue; later probes still
	// run, so RunAudit itself never fails.
	RunAudit(ctx context.Context) *Report
}

// FixService applies remedies for audited issues.
type FixService interface {
	// Apply remediates the issues in discovery order, one result per issue.
	// Failures are recorded and do not stop the pass.
	Apply(ctx context.Context, issues []Issue) []FixResult
}
