package services

import "errors"

// ErrSiteNotFound is returned when a request names a site outside
// the study.
var ErrSiteNotFound = errors.New("site not found")
