package clipboard

import "errors"

var ErrUnsupported = errors.New("no clipboard utility available")
