/*
period.go - Billing-period generation

PURPOSE:
  Derives the ordered, non-overlapping billing periods of a lease. Periods
  are anchored on a billing day and run from one anchor to the day before
  the next; the first and last periods are clipped to the lease lifecycle
  and marked partial when clipped.

POLICIES:
  PolicyCalendarMonth: periods align to the 1st..last day of each month.
  PolicyAnniversary:   the billing day is the lease start's day-of-month.
  PolicyFixedDay:      the billing day is supplied by the caller.

CLAMPING:
  A billing day beyond a month's length clamps to the month's last day
  (day 31 bills on Feb 28 in a non-leap year) without drifting: the next
  anchor is always computed from the configured day, never from a clamped
  predecessor.

INVARIANT:
  For one lease the emitted periods partition the billed range: sorted by
  start, each period begins exactly one day after the previous period ends.

SEE ALSO:
  - proration.go: rent due per period (full vs prorated)
  - payments.go: opening balance over pre-window periods
*/
package billing

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD POLICY
// =============================================================================

type PeriodPolicy string

const (
	PolicyCalendarMonth PeriodPolicy = "calendar_month"
	PolicyAnniversary   PeriodPolicy = "anniversary"
	PolicyFixedDay      PeriodPolicy = "fixed_day"
)

// PeriodConfig selects how billing anchors are derived.
type PeriodConfig struct {
	Policy PeriodPolicy

	// BillingDay is the anchor day-of-month for PolicyFixedDay (1..31).
	// Ignored by the other policies.
	BillingDay int
}

// billingDayFor resolves the anchor day-of-month for a lease.
func (pc PeriodConfig) billingDayFor(lease Lease) (int, error) {
	switch pc.Policy {
	case PolicyCalendarMonth:
		return 1, nil
	case PolicyAnniversary:
		return lease.StartDate.Day(), nil
	case PolicyFixedDay:
		if pc.BillingDay < 1 || pc.BillingDay > 31 {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidBillingDay, pc.BillingDay)
		}
		return pc.BillingDay, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, pc.Policy)
	}
}

// =============================================================================
// BILLING PERIOD
// =============================================================================

// BillingPeriod is one inclusive [Start, End] slice of a lease's billed
// range. AnchorStart/AnchorEnd hold the nominal anchor-to-anchor cycle the
// period was cut from; Partial is true when clipping shortened the period.
type BillingPeriod struct {
	Start Date
	End   Date

	AnchorStart Date
	AnchorEnd   Date

	Partial bool
}

// Days returns the inclusive length of the period in days.
func (p BillingPeriod) Days() int { return DaysBetween(p.Start, p.End) + 1 }

// Contains reports whether the date falls inside [Start, End].
func (p BillingPeriod) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Overlaps reports whether the period intersects the window.
func (p BillingPeriod) Overlaps(w Window) bool {
	return !p.End.Before(w.Start) && !p.Start.After(w.End)
}

// DisplayName renders a compact period label, e.g. "Jan 22 - Feb 21, 2025".
func (p BillingPeriod) DisplayName() string {
	return p.Start.Format("Jan 2") + " - " + p.End.Format("Jan 2") + ", " + p.End.Format("2006")
}

// SheetName renders the long-form label used in spreadsheet exports,
// e.g. "January 22 - February 21 2025".
func (p BillingPeriod) SheetName() string {
	return p.Start.Format("January 2") + " - " + p.End.Format("January 2") + " " + p.End.Format("2006")
}

func (p BillingPeriod) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// PERIOD GENERATION
// =============================================================================

// PeriodSchedule is the outcome of generating a lease's periods against a
// reporting window. PreWindow holds the periods that ended before the window
// started; they exist only to price the opening balance.
type PeriodSchedule struct {
	// InWindow are the periods overlapping the reporting window, ordered.
	InWindow []BillingPeriod

	// PreWindow are the periods strictly before the window, ordered.
	PreWindow []BillingPeriod
}

// GeneratePeriods derives the billing periods of a lease that overlap the
// reporting window, plus the pre-window periods needed for the opening
// balance. A lease starting after the window end yields an empty schedule
// (future lease, excluded entirely).
func GeneratePeriods(lease Lease, cfg PeriodConfig, window Window) (PeriodSchedule, error) {
	if !window.Valid() {
		return PeriodSchedule{}, ErrInvalidWindow
	}
	if lease.StartDate.IsZero() {
		return PeriodSchedule{}, &MissingStartDateError{LeaseID: lease.ID, Reference: lease.Reference}
	}
	if lease.StartDate.After(window.End) {
		return PeriodSchedule{}, nil
	}

	day, err := cfg.billingDayFor(lease)
	if err != nil {
		return PeriodSchedule{}, err
	}

	// The billed range never extends past lease end or the window end.
	limit := window.End
	if lease.EndDate != nil {
		limit = MinDate(limit, *lease.EndDate)
	}
	if limit.Before(lease.StartDate) {
		// Lease ended before it started billing anything in range.
		return PeriodSchedule{}, nil
	}

	var schedule PeriodSchedule
	year, month := firstAnchorMonth(lease.StartDate, day)

	for {
		anchor := anchorDate(year, month, day)
		if anchor.After(limit) {
			break
		}

		nextYear, nextMonth := nextAnchorMonth(year, month)
		nextAnchor := anchorDate(nextYear, nextMonth, day)

		period := BillingPeriod{
			Start:       MaxDate(anchor, lease.StartDate),
			End:         nextAnchor.AddDays(-1),
			AnchorStart: anchor,
			AnchorEnd:   nextAnchor.AddDays(-1),
		}
		if lease.EndDate != nil && period.End.After(*lease.EndDate) {
			period.End = *lease.EndDate
		}
		period.Partial = !period.Start.Equal(period.AnchorStart) || !period.End.Equal(period.AnchorEnd)

		if !period.Start.After(period.End) {
			if period.End.Before(window.Start) {
				schedule.PreWindow = append(schedule.PreWindow, period)
			} else if period.Overlaps(window) {
				schedule.InWindow = append(schedule.InWindow, period)
			}
		}

		year, month = nextYear, nextMonth
	}

	if err := validatePartition(lease.ID, schedule.PreWindow, schedule.InWindow); err != nil {
		return PeriodSchedule{}, err
	}
	return schedule, nil
}

// firstAnchorMonth locates the anchor month containing the lease start: the
// latest anchor on or before the start date.
func firstAnchorMonth(start Date, day int) (int, time.Month) {
	year, month := start.Year(), start.Month()
	if anchorDate(year, month, day).After(start) {
		return prevAnchorMonth(year, month)
	}
	return year, month
}

// anchorDate clamps the billing day to the month's length.
func anchorDate(year int, month time.Month, day int) Date {
	if max := DaysInMonth(year, month); day > max {
		day = max
	}
	return NewDate(year, month, day)
}

func nextAnchorMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

func prevAnchorMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// validatePartition checks the non-overlap/no-gap invariant over the full
// generated sequence (pre-window + in-window). A violation here is a
// generator bug and is fatal for the lease, never silently repaired.
func validatePartition(leaseID LeaseID, preWindow, inWindow []BillingPeriod) error {
	all := make([]BillingPeriod, 0, len(preWindow)+len(inWindow))
	all = append(all, preWindow...)
	all = append(all, inWindow...)

	for i, p := range all {
		if p.End.Before(p.Start) {
			return &ConsistencyError{
				LeaseID: leaseID,
				Detail:  fmt.Sprintf("period %s ends before it starts", p),
				Date:    p.Start,
			}
		}
		if i == 0 {
			continue
		}
		if !all[i-1].End.AddDays(1).Equal(p.Start) {
			return &ConsistencyError{
				LeaseID: leaseID,
				Detail:  fmt.Sprintf("gap or overlap between %s and %s", all[i-1], p),
				Date:    p.Start,
			}
		}
	}
	return nil
}
