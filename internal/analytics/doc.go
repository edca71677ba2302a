// Package analytics implements the record aggregation and statistical
// summarization engine behind the RM4Health reporting service.
//
// The engine consumes schema-free observation records exported from a
// REDCap-style data capture system and produces five analysis documents:
// longitudinal per-participant history, healthcare utilization,
// sleep patterns, medication adherence, and residence comparison.
//
// Two principles run through every stage. First, dirty data degrades
// instead of failing: unparsable numbers are skipped, missing keys fall
// back to the "unknown" group, and empty input yields a NoData sentinel
// document rather than an error. Second, output is deterministic for a
// fixed input order: groups keep first-seen order and every tie-break
// picks the first-encountered candidate.
package analytics
