// Package settle resolves typed configuration values from layered sources:
// process environment variables, a remote parameter/secret store, and static
// defaults, in that order of precedence. It is designed for serverless
// functions, where a co-located retrieval agent offers a low-latency path to
// the remote store and concurrent cold-start callers must share a single
// resolution pass.
//
// Callers declare a Schema, trigger Initialize exactly once (concurrent calls
// are deduplicated), and read values through the Manager. Environment
// variables are re-checked on every read, so mutations made after
// initialization remain observable.
package settle
