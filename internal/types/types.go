// README: Shared scalar types used across modules.
package types

// ID is an opaque identifier shared by guests, sessions, and bookings.
type ID string
