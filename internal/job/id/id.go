// Package id provides unique identifier generation for jobs.
package id

import "github.com/google/uuid"

// Prefix starts every job ID.
const Prefix = "job-"

// Generate creates a new unique job ID.
// Format: job-<uuid v4>
// Example: job-1b4e28ba-2fa1-41d2-883f-0016d3cca427
func Generate() string {
	return Prefix + uuid.NewString()
}
