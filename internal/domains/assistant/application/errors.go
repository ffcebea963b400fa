package application

import "errors"

var errNoClient = errors.New("assistant model client not configured")
