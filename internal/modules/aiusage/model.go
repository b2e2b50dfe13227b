package aiusage

import "errors"

// ErrInsufficientTokens is returned when a user has no parse tokens remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of intent parses granted per month.
const DefaultTokens = 100

// monthLayout formats last_reset_month values.
const monthLayout = "2006-01"
