// Package schedule maps declarative invalidation rules to cache TTLs.
//
// A rule is built once, at decoration time, from either a daily "HH:MM"
// expression or a standard 5-field cron expression. Malformed expressions
// fail at construction, never per call. Rules are immutable and the TTL
// computation is a pure function of (rule, now), safe for concurrent use.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/robfig/cron/v3"
)

// Rule is a declarative invalidation rule: one of TimeRule or CronRule.
type Rule interface {
	// Next returns the earliest invalidation instant strictly after now.
	Next(now time.Time) time.Time
}

// InvalidTimeExpressionError reports a daily expression not matching HH:MM
// (00-23 / 00-59) or an unresolvable timezone.
type InvalidTimeExpressionError struct {
	Expression string
	Reason     string
}

func (e *InvalidTimeExpressionError) Error() string {
	return fmt.Sprintf("invalid time expression %q: %s", e.Expression, e.Reason)
}

// InvalidCronExpressionError reports a malformed 5-field cron expression.
type InvalidCronExpressionError struct {
	Expression string
	Err        error
}

func (e *InvalidCronExpressionError) Error() string {
	return fmt.Sprintf("invalid cron expression %q: %v", e.Expression, e.Err)
}

func (e *InvalidCronExpressionError) Unwrap() error { return e.Err }

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TimeRule invalidates once a day at a fixed wall-clock time.
type TimeRule struct {
	hour   int
	minute int
	loc    *time.Location
}

// Daily builds a TimeRule from an "HH:MM" expression. timezone is an IANA
// zone name; empty means local time.
func Daily(expr, timezone string) (*TimeRule, error) {
	if err := validation.Validate(expr, validation.Required, validation.Match(timePattern)); err != nil {
		return nil, &InvalidTimeExpressionError{
			Expression: expr,
			Reason:     "must be HH:MM (00-23:00-59)",
		}
	}

	loc, err := resolveLocation(timezone)
	if err != nil {
		return nil, &InvalidTimeExpressionError{
			Expression: expr,
			Reason:     fmt.Sprintf("unknown timezone %q", timezone),
		}
	}

	hour, _ := strconv.Atoi(expr[:2])
	minute, _ := strconv.Atoi(expr[3:])

	return &TimeRule{hour: hour, minute: minute, loc: loc}, nil
}

// Next returns today's instant at the rule's wall-clock time, or tomorrow's
// when today's is not strictly in the future. An instant equal to now rolls
// over, so the TTL is never zero.
func (r *TimeRule) Next(now time.Time) time.Time {
	n := now.In(r.loc)

	at := time.Date(n.Year(), n.Month(), n.Day(), r.hour, r.minute, 0, 0, r.loc)
	if !at.After(n) {
		at = at.AddDate(0, 0, 1)
	}

	return at
}

// CronRule invalidates on a standard minute/hour/dom/month/dow schedule.
type CronRule struct {
	sched cron.Schedule
	loc   *time.Location
}

// Cron builds a CronRule from a 5-field cron expression. timezone is an IANA
// zone name; empty means local time.
func Cron(expr, timezone string) (*CronRule, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, &InvalidCronExpressionError{Expression: expr, Err: err}
	}

	loc, err := resolveLocation(timezone)
	if err != nil {
		return nil, &InvalidCronExpressionError{
			Expression: expr,
			Err:        fmt.Errorf("unknown timezone %q", timezone),
		}
	}

	return &CronRule{sched: sched, loc: loc}, nil
}

// Next returns the earliest matching instant strictly after now.
func (r *CronRule) Next(now time.Time) time.Time {
	return r.sched.Next(now.In(r.loc))
}

func resolveLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}

	return time.LoadLocation(name)
}
