// Package fetch retrieves remote configuration references through two
// interchangeable strategies: a co-located retrieval agent reached over
// loopback HTTP, and the remote parameter store itself, addressed in bulk or
// item by item. Absence and transport failures are reported as missing
// references plus warnings, never as errors, so a resolution pass degrades
// through its precedence chain instead of aborting on fetch trouble.
package fetch
