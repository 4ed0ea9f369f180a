package validation

import "regexp"

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// US-style numbers: optional +1, separators of dash, dot or space.
	phoneRegex      = regexp.MustCompile(`^\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}$`)
	blockLotRegex   = regexp.MustCompile(`^[A-Za-z0-9-]{1,10}$`)
	unitNumberRegex = regexp.MustCompile(`^[A-Za-z0-9\-#\s]{1,10}$`)
	numericRegex    = regexp.MustCompile(`^[0-9]+$`)
	// Plates are upper-cased before matching.
	plateRegex = regexp.MustCompile(`^[A-Z0-9\-\s]{2,10}$`)
)
