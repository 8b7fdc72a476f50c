package domain

// Category is the display bucket for a payment or loan status.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryError   Category = "error"
	CategoryNeutral Category = "neutral"
)

// ClassifyStatus maps a status string to its display category. The match is
// an exact, case-sensitive comparison; any unrecognized value is Neutral.
func ClassifyStatus(status string) Category {
	switch status {
	case StatusOnTime:
		return CategorySuccess
	case StatusLate:
		return CategoryWarning
	case StatusDefaulted:
		return CategoryError
	default:
		return CategoryNeutral
	}
}
