package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sittersafe/carelog/internal/client/models"
	"github.com/sittersafe/carelog/internal/common"
)

const (
	minutesPerDay = 24 * 60

	// minSleepMinutes rejects spans that are almost always typos.
	minSleepMinutes = 5

	// maxOvernightMinutes caps a span interpreted as crossing midnight.
	// 14:00–13:55 would otherwise count as a 23h55m sleep.
	maxOvernightMinutes = 12 * 60
)

// validateDraft checks an event draft before any storage mutation. Failures
// wrap common.ErrValidation and are reported to the user synchronously.
func validateDraft(draft EventDraft) error {
	if len(draft.ChildIDs) == 0 {
		return fmt.Errorf("select at least one child for this activity: %w", common.ErrValidation)
	}

	if draft.Type == models.ActivitySleep && draft.Details.From != "" && draft.Details.To != "" {
		from, err := parseClock(draft.Details.From)
		if err != nil {
			return fmt.Errorf("sleep start %q is not a valid HH:MM time: %w", draft.Details.From, common.ErrValidation)
		}
		to, err := parseClock(draft.Details.To)
		if err != nil {
			return fmt.Errorf("sleep end %q is not a valid HH:MM time: %w", draft.Details.To, common.ErrValidation)
		}

		var duration int
		if to <= from {
			// Crosses midnight.
			duration = minutesPerDay - from + to
			if duration > maxOvernightMinutes {
				return fmt.Errorf("overnight sleep of %dh%02dm looks wrong, please re-check the times: %w",
					duration/60, duration%60, common.ErrValidation)
			}
		} else {
			duration = to - from
		}
		if duration < minSleepMinutes {
			return fmt.Errorf("sleep of only %d minute(s) looks wrong, please re-check the times: %w",
				duration, common.ErrValidation)
		}
	}
	return nil
}

// parseClock parses an HH:MM display time into minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	return hours*60 + minutes, nil
}
