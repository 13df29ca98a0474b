package aiquota

import "errors"

// ErrQuotaExhausted is returned when a guest has no AI turns remaining for the
// current month.
var ErrQuotaExhausted = errors.New("ai turn quota exhausted")

// DefaultTurns is the number of language-model turns granted per month.
const DefaultTurns = 200
