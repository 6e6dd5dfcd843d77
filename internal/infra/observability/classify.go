package observability

import (
	"errors"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
)

// classify buckets an error into a low-cardinality label value.
func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateUser):
		return "duplicate_user"
	case errors.Is(err, domain.ErrDuplicateMenuID):
		return "duplicate_menu_id"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrInvalidCount):
		return "invalid_count"
	case errors.Is(err, domain.ErrInvalidSizeSpec):
		return "invalid_size_spec"
	case errors.Is(err, domain.ErrDuplicateSize):
		return "duplicate_size"
	case errors.Is(err, domain.ErrIndexNotFound), errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "other"
	}
}
