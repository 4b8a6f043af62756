package jval

import "errors"

var (
	errInvalidUTF8 = errors.New("jval: string is not valid UTF-8")
	errEmbeddedNUL = errors.New("jval: string contains an embedded NUL byte")
)
