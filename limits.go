package pagewindow

const (
	// DefaultPageSize is the page size used when a configuration leaves it unset.
	DefaultPageSize = 30
	MaxPageSize     = 1000
)

// NormalizePageSize maps a configured page size into (0, MaxPageSize]:
// non-positive values become DefaultPageSize, larger ones are clamped.
func NormalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}

	return min(pageSize, MaxPageSize)
}
