package submissions

import "errors"

var ErrNotFound = errors.New("not found")
