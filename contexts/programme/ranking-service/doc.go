// Package rankingservice owns the threshold-gated bulk transitions inside
// the programme context.
//
// Round close and acceptance both run in two phases: a preview stashes the
// administrator's threshold as a short-lived pending token, and the matching
// confirm consumes it and commits every qualifying transition in one
// transaction. A confirm without a live token fails closed. Scoring is
// pluggable; the default is majority judgement.
package rankingservice
