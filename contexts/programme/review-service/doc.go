// Package reviewservice owns anonymous peer review inside the programme
// context.
//
// The module enforces the vote state machine, builds the per-reviewer
// review queue with its session-cached order, and covers the administrative
// bulk mutations on a proposal's votes. Queue order is cached per reviewer
// so repeated page loads replay the same proposals; rebuilds happen only on
// an explicit reshuffle, on unsettled work, or when fresh proposals arrive
// after an idle period.
package reviewservice
