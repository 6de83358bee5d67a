// Package gate implements invite-gated account creation and the
// authenticated command console that sits behind it.
//
// Invite lifecycle:
//   - InviteTokens are opaque, high-entropy credentials persisted via Bun
//     with an issued/expires window and an Active kill switch. Usability is
//     derived at check time from the stored timestamps, so no background
//     sweep is required; expired rows are kept for audit.
//   - InviteService is the only writer. Issue mints and persists a token,
//     Revoke flips Active off (idempotent, never reverts), and Validate
//     returns a discriminated InviteStatus so "link expired" and "link
//     invalid" stay routine outcomes rather than errors. The expiry a client
//     presents is advisory only; the stored expiry always decides.
//
// Signup gating:
//   - SignupGate inspects the raw token/expires pair from an invite link,
//     rejecting absent or malformed parameters without a storage round trip
//     and delegating everything else to InviteService. Account creation
//     itself belongs to the external AuthGateway.
//
// Console:
//   - Console binds one authenticated Identity to a prompt-driven command
//     loop with a dispatch table (help, whoami, gen-invite, clear, logout)
//     and line-history recall. Submissions are serialized per console,
//     handlers never let errors escape the loop, and the transcript and
//     history buffers are independent so `clear` wipes the display without
//     touching recall.
package gate
