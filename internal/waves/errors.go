package waves

import "errors"

// ErrInvalidParams is wrapped by every Init validation failure.
var ErrInvalidParams = errors.New("waves: invalid parameters")
