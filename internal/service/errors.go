package service

import "errors"

var (
	ErrEventNotFound      = errors.New("availability event not found")
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrInvalidEvent       = errors.New("invalid availability event")
)
