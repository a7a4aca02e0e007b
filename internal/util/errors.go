package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuizNotPublished   = errors.New("quiz not published or not accessible")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrGradingInProgress  = errors.New("submission is being graded by another request")
	ErrAnswerNotFound     = errors.New("submission answer not found")
	ErrNotManualGradable  = errors.New("answer is not pending manual grading")
	ErrScoreOutOfRange    = errors.New("manual score outside the question's point range")
)
