package relay

import "errors"

var (
	ErrDuplicateRoom   = errors.New("room already exists")
	ErrMissingRoomID   = errors.New("room id required")
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrNoRoomAvailable = errors.New("no room available")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrInvalidCapacity = errors.New("invalid room capacity")
)
