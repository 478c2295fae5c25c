package model

import "errors"

// Common errors used across the application
var (
	// Setup errors
	ErrInvalidSettings = errors.New("invalid game settings")
	ErrNoTopics        = errors.New("no topics configured")

	// Question errors
	ErrFetchFailed       = errors.New("question fetch failed")
	ErrNoQuestions       = errors.New("no questions available for these settings")
	ErrInvalidQuestion   = errors.New("invalid question")
	ErrQuestionBankEmpty = errors.New("question bank is empty")

	// Session errors
	ErrInvalidPhase = errors.New("action not allowed in the current phase")
)
