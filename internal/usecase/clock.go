package usecase

import (
	"time"

	"tour-booking/pkg/utils"
)

// Clock fixes "now" and the zone in which calendar dates are read.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) Today() time.Time {
	return utils.Today(c.Now, c.Location)
}
