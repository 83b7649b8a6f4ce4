package feature

import "errors"

var ErrNoSource = errors.New("feature.no_source")
