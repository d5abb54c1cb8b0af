// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Outcome classifies how a folder conversion ended.
type Outcome string

const (
	// OutcomeSuccess means the output PDF was written.
	OutcomeSuccess Outcome = "success"

	// OutcomeNoMatchingFiles means the folder held no file with an allowed
	// extension. It is informational, not a fault.
	OutcomeNoMatchingFiles Outcome = "no_matching_files"

	// OutcomeNoPagesProduced means every image or batch failed, so no
	// output was written.
	OutcomeNoPagesProduced Outcome = "no_pages_produced"

	// OutcomeFailure means a condition outside per-file handling stopped the
	// run: workspace acquisition, final write, or cancellation.
	OutcomeFailure Outcome = "failure"
)

// Result is the outcome of converting one folder.
type Result struct {
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// OutputPath and PageCount are set on success.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	PageCount  int    `json:"page_count" yaml:"page_count"`

	// Reason is set when Outcome is OutcomeFailure.
	Reason error `json:"-" yaml:"-"`

	// Files is the number of qualifying images discovered.
	Files int `json:"files" yaml:"files"`

	// DecodeFailures counts images skipped because they could not be decoded.
	DecodeFailures int `json:"decode_failures" yaml:"decode_failures"`

	// BatchFailures counts batches dropped because rendering or merging failed.
	BatchFailures int `json:"batch_failures" yaml:"batch_failures"`

	// Documents is the number of intermediate documents merged.
	Documents int `json:"documents" yaml:"documents"`
}

// Success builds a successful result.
func Success(outputPath string, pageCount int) Result {
	return Result{Outcome: OutcomeSuccess, OutputPath: outputPath, PageCount: pageCount}
}

// Failure builds a failed result carrying reason.
func Failure(reason error) Result {
	return Result{Outcome: OutcomeFailure, Reason: reason}
}

// OK reports whether the output PDF was written.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// String renders a one-line description suitable for logs and terminals.
func (r Result) String() string {
	switch r.Outcome {
	case OutcomeSuccess:
		s := fmt.Sprintf("wrote %s (%d pages)", r.OutputPath, r.PageCount)
		if skipped := r.DecodeFailures + r.BatchFailures; skipped > 0 {
			s += fmt.Sprintf(", %d decode failures, %d batch failures", r.DecodeFailures, r.BatchFailures)
		}
		return s
	case OutcomeNoMatchingFiles:
		return "no matching files"
	case OutcomeNoPagesProduced:
		return fmt.Sprintf("no pages produced from %d files", r.Files)
	case OutcomeFailure:
		if r.Reason != nil {
			return "failed: " + r.Reason.Error()
		}
		return "failed"
	default:
		return string(r.Outcome)
	}
}
