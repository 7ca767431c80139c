// Package issue models problems a rider raises mid-delivery and the admin's
// single response to each.
//
// State transitions, one step at a time and never backwards:
//
//	Reported ──respond──> AdminResponded ──rider reattempt──> Resolved
//
// The admin drives only the first edge. The second is recorded by the rider's
// client and merely observed here.
//
// Key business rules:
//   - AdminResponse and AdminMessage are set if and only if the status is past Reported
//   - The reattempt outcome is set only on Resolved issues, and every Resolved issue has one
//   - Respond validates everything before changing anything
package issue
