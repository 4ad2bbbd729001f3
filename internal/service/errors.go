package service

import (
    "errors"
    "fmt"

    "github.com/iliyamo/stay-reservation/internal/repository"
)

// Error taxonomy of the reservation service.  Errors returned by the
// service wrap exactly one of these; handlers match them with errors.Is.
var (
    // ErrValidation reports malformed or out-of-range input.
    ErrValidation = errors.New("validation failed")
    // ErrNotFound reports an unknown property, booking, block or override.
    ErrNotFound = errors.New("not found")
    // ErrConflict reports a date overlap with a binding booking or an
    // active block.
    ErrConflict = errors.New("dates are not available")
    // ErrPermission reports an actor without the required role or ownership.
    ErrPermission = errors.New("permission denied")
    // ErrInvalidState reports an illegal status transition.
    ErrInvalidState = errors.New("invalid booking state")
    // ErrDependency reports a failed side channel such as notification
    // dispatch.  It is logged and never returned from a booking operation.
    ErrDependency = errors.New("dependency failure")
)

func validationf(format string, args ...any) error {
    return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// translate maps storage errors onto the service taxonomy.
func translate(err error) error {
    switch {
    case err == nil:
        return nil
    case errors.Is(err, repository.ErrNotFound):
        return fmt.Errorf("%w: %w", ErrNotFound, err)
    case errors.Is(err, repository.ErrLockContention):
        return fmt.Errorf("%w: %w", ErrConflict, err)
    }
    return err
}
