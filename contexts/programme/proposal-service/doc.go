// Package proposalservice owns the proposal lifecycle inside the programme
// context.
//
// The module enforces the proposal state machine (with an audited forced
// bypass for administrative corrections), the anonymisation worklist, and
// the proposer/administrator message threads. Business rules live in the
// application and domain layers; infrastructure sits behind ports and
// adapters.
package proposalservice
