package services

import "errors"

// Registry errors
var (
	ErrAgentNotFound = errors.New("registry: agent not found")
)

// Queue errors
var (
	ErrCommandNotFound = errors.New("queue: command not found")
)

// Dispatch errors
var (
	ErrInvalidEvent = errors.New("dispatch: invalid event")
)

// Submission errors
var (
	ErrInvalidSubmission = errors.New("submit: agent id and command are required")
)
