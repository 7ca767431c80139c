// Package kernel provides the domain primitives shared by every model package:
//
//   - ID: an opaque identifier assigned by the external store
//   - Location: a validated latitude/longitude pair
//   - Snapshot: an immutable, ordered listing of records fetched at one instant
//
// Values are immutable once constructed and safe to share between goroutines.
package kernel
