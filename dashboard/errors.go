package dashboard

import "errors"

// ErrUnknownPanel is returned when no mounted panel has the given id.
var ErrUnknownPanel = errors.New("unknown panel")
