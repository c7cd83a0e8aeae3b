package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrModuleNotFound      = errors.New("module not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuizNotPublished    = errors.New("quiz not published or not accessible")
	ErrNotEnrolled         = errors.New("not enrolled in this module")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrAttemptLimitReached = errors.New("attempt limit reached")
	ErrMalformedSubmission = errors.New("malformed submission")
)
