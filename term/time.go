package term

import "time"

const (
	microPerSecond = 1_000_000
	microPerMega   = 1_000_000 * microPerSecond
)

// Timestamp returns t as {MegaSecs, Secs, MicroSecs}, the shape of
// erlang:timestamp/0.
func Timestamp(t time.Time) Tuple {
	us := t.UnixMicro()
	return Tuple{
		Int(us / microPerMega),
		Int(us % microPerMega / microPerSecond),
		Int(us % microPerSecond),
	}
}

// Time interprets a 3-tuple of integers as {MegaSecs, Secs, MicroSecs}.
func (t Tuple) Time() (time.Time, bool) {
	if len(t) != 3 {
		return time.Time{}, false
	}
	var parts [3]int64
	for i, e := range t {
		switch v := e.(type) {
		case Int:
			parts[i] = int64(v)
		case BigInt:
			if v.Value == nil || !v.Value.IsInt64() {
				return time.Time{}, false
			}
			parts[i] = v.Value.Int64()
		default:
			return time.Time{}, false
		}
	}
	us := parts[0]*microPerMega + parts[1]*microPerSecond + parts[2]
	return time.UnixMicro(us), true
}
