package smoketest

// HTTP status code constants.
const (
	StatusOK         = 200
	StatusBadRequest = 400
)

// Reporting constants.
const (
	PercentageMultiplier = 100
	TopMomentsDisplayed  = 5
)
