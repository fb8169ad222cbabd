package feedback

import "errors"

var (
	ErrUnknownSection   = errors.New("unknown section")
	ErrUnknownField     = errors.New("unknown feedback field")
	ErrInvalidSentiment = errors.New("invalid sentiment")
)
