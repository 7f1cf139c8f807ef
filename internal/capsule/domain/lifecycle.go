package domain

import (
	"fmt"
	"time"
)

// IsLocked reports whether the capsule content is still hidden at the given
// instant. The manual unlock flag always wins over the release date, and a
// capsule unlocks the moment now reaches ReleaseAt.
func IsLocked(c *Capsule, now time.Time) bool {
	return !c.IsUnlocked && c.ReleaseAt.After(now)
}

// TimeRemaining renders the countdown shown on a locked capsule, using the
// coarsest two units: "D days, H hours remaining", then "H hours, M minutes
// remaining", then "M minutes remaining". It returns "" once the capsule is
// unlocked and floors at "0 minutes remaining"; it never reports a negative
// component. Recomputing with a non-decreasing now yields a non-increasing
// remainder.
func TimeRemaining(c *Capsule, now time.Time) string {
	if !IsLocked(c, now) {
		return ""
	}

	d := c.ReleaseAt.Sub(now)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%d days, %d hours remaining", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%d hours, %d minutes remaining", hours, minutes)
	}
	return fmt.Sprintf("%d minutes remaining", minutes)
}
