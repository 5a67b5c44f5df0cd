package liquid

import "errors"

var (
	// ErrOutOfBounds is returned for any coordinate access outside [0, N).
	ErrOutOfBounds = errors.New("liquid: coordinate out of bounds")

	// ErrUnknownDirection is returned when an offset is requested before
	// gravity was ever set, or for a direction the variant does not have.
	ErrUnknownDirection = errors.New("liquid: unknown direction")

	// ErrBorderCell is returned when a mutation targets a border cell.
	ErrBorderCell = errors.New("liquid: border cell")

	// ErrInvalidSize is returned for grids smaller than 1x1.
	ErrInvalidSize = errors.New("liquid: invalid grid size")

	// ErrInvalidParams is returned by Params.Validate.
	ErrInvalidParams = errors.New("liquid: invalid parameters")

	// ErrInvalidMass is returned when a mass edit is NaN or infinite.
	ErrInvalidMass = errors.New("liquid: invalid mass")

	// ErrLayoutMismatch is returned when restored masses do not fit the grid.
	ErrLayoutMismatch = errors.New("liquid: layout mismatch")
)
