// Package diag defines the diagnostic model shared by the parser, the
// semantic passes and the goal scheduler.
//
// Producers emit through a Reporter and never format or print anything.
// The driver stacks reporters:
//
//	DedupReporter -> LimitReporter -> BagReporter
//
// LimitReporter is the error-count gate: once the configured number of
// errors has been forwarded, Exceeded reports true and the scheduler aborts
// the run. Rendering lives in internal/diagfmt.
//
// Codes are grouped by range: LEX (1000), SYN (2000), SEM (3000), IO (4000),
// PRJ (5000), SCH (6000), OBS (7000).
package diag
