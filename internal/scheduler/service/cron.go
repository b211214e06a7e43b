package service

import (
	"fmt"
	"time"

	"golang-chart-insight/internal/scheduler/dto"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// nextExecution returns the first activation of expr strictly after from, evaluated in loc.
func nextExecution(expr string, from time.Time, loc *time.Location) (time.Time, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid cron expression %q: %v", dto.ErrValidation, expr, err)
	}
	next := schedule.Next(from.In(loc))
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("%w: cron expression %q never fires", dto.ErrValidation, expr)
	}
	return next, nil
}
