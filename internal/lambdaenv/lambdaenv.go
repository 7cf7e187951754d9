// Package lambdaenv detects whether the current process runs inside a
// serverless function runtime, which determines whether the co-located
// retrieval agent is expected to be reachable.
package lambdaenv

import "os"

// Runtime markers set by the serverless platform. Any one of them being
// present and non-empty counts as detection.
var markers = []string{
	"AWS_LAMBDA_FUNCTION_NAME",
	"LAMBDA_TASK_ROOT",
	"AWS_EXECUTION_ENV",
}

// Detected reports whether a serverless runtime marker is present in the
// process environment.
func Detected() bool {
	for _, marker := range markers {
		if os.Getenv(marker) != "" {
			return true
		}
	}
	return false
}
