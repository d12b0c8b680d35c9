package core

import (
	"fmt"
	"time"

	"pfmlportal/pkg/domain"
)

const isoDate = "2006-01-02"

// leavePeriod is the date range of any kind of leave period, along with the
// field path prefix its issues are reported under.
type leavePeriod struct {
	path  string
	start string
	end   string
}

func leavePeriods(c domain.Claim) []leavePeriod {
	var out []leavePeriod
	add := func(list string, i int, start, end string) {
		out = append(out, leavePeriod{
			path:  fmt.Sprintf("leave_details.%s[%d]", list, i),
			start: start,
			end:   end,
		})
	}
	for i, p := range c.LeaveDetails.ContinuousLeavePeriods {
		add("continuous_leave_periods", i, p.StartDate, p.EndDate)
	}
	for i, p := range c.LeaveDetails.ReducedScheduleLeavePeriods {
		add("reduced_schedule_leave_periods", i, p.StartDate, p.EndDate)
	}
	for i, p := range c.LeaveDetails.IntermittentLeavePeriods {
		add("intermittent_leave_periods", i, p.StartDate, p.EndDate)
	}
	return out
}

// dates parses both ends of the period; ok is false when either is missing
// or malformed.
func (p leavePeriod) dates() (start, end time.Time, ok bool) {
	start, err := time.Parse(isoDate, p.start)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = time.Parse(isoDate, p.end)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
