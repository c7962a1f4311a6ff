package clock

import "time"

// Clock provides time to the application.
// Implementations return UTC instants at microsecond precision, which is what
// Postgres stores, so values round-trip through every repository unchanged.
type Clock interface {
	Now() time.Time
}
