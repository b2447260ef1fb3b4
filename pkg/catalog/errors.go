package catalog

import "errors"

var errNoSource = errors.New("catalog: no source configured")
