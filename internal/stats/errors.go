package stats

import "errors"

var (
	// ErrInsufficientData is returned when a series is too short for the requested computation.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrConstantSeries is returned when a test input has zero variance.
	ErrConstantSeries = errors.New("invalid input, x is constant")
	// ErrSingularMatrix is returned when a regression design is rank deficient.
	ErrSingularMatrix = errors.New("singular design matrix")
	// ErrPerfectColinearity is returned when two series are (almost) perfectly colinear.
	ErrPerfectColinearity = errors.New("y0 and y1 are (almost) perfectly colinear, cointegration test is not reliable in this case")
	// ErrUnsupportedRegression is returned for a deterministic-term/variable-count combination without tables.
	ErrUnsupportedRegression = errors.New("unsupported regression for MacKinnon tables")
)
