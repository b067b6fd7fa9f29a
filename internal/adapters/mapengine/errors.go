package mapengine

import "errors"

var (
	ErrSurfaceNotReady = errors.New("map engine: surface has not been laid out")
	ErrEmptyTransition = errors.New("map engine: transition has neither bounds nor center")
)
