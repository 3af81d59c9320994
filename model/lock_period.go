package model

// LockPeriod is the voluntary time-lock chosen when exchanging units.
// Locking grants a bonus on top of the instant currency value.
type LockPeriod string

const (
	LockPeriodYear1 LockPeriod = "year1"
	LockPeriodYear2 LockPeriod = "year2"
	LockPeriodYear3 LockPeriod = "year3"
)

func (p LockPeriod) String() string {
	return string(p)
}

func (p LockPeriod) IsValid() bool {
	switch p {
	case LockPeriodYear1, LockPeriodYear2, LockPeriodYear3:
		return true
	default:
		return false
	}
}
