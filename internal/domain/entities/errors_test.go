package entities

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_UnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("saving: %w", &ValidationError{Code: CodeEmptyTitle, Field: "title", Message: "请输入标题"})

	assert.True(t, errors.Is(err, ErrEmptyTitle))
	assert.False(t, errors.Is(err, ErrInvalidDate))

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "title", vErr.Field)
}

func TestAuthError_Message(t *testing.T) {
	tests := []struct {
		name     string
		err      *AuthError
		expected string
	}{
		{"invalid credentials", NewAuthError(AuthOpSignIn, AuthInvalidCredentials, nil), "邮箱或密码错误"},
		{"invalid email", NewAuthError(AuthOpSignUp, AuthInvalidEmail, nil), "邮箱格式不正确"},
		{"not verified", NewAuthError(AuthOpSignIn, AuthEmailNotVerified, nil), "请先验证邮箱"},
		{"in use", NewAuthError(AuthOpSignUp, AuthEmailInUse, nil), "该邮箱已被注册"},
		{"weak password", NewAuthError(AuthOpSignUp, AuthWeakPassword, nil), "密码过于简单，至少需要6个字符"},
		{"rate limited", NewAuthError(AuthOpSignIn, AuthRateLimited, nil), "请求过于频繁，请稍后再试"},
		{"unknown sign in", NewAuthError(AuthOpSignIn, AuthUnknown, nil), "登录失败"},
		{"unknown sign up", NewAuthError(AuthOpSignUp, AuthUnknown, nil), "注册失败"},
		{"unknown sign out", NewAuthError(AuthOpSignOut, AuthUnknown, nil), "登出失败"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Message())
		})
	}
}

func TestAuthError_UnknownKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewAuthError(AuthOpSignIn, AuthUnknown, cause)

	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, AuthUnknown, AuthKindOf(err))
	assert.Equal(t, AuthRateLimited, AuthKindOf(fmt.Errorf("wrap: %w", NewAuthError(AuthOpSignIn, AuthRateLimited, nil))))
}

func TestSpeechErrorFromCode(t *testing.T) {
	tests := []struct {
		code    string
		kind    SpeechErrorKind
		message string
	}{
		{"no-speech", SpeechNoSpeechDetected, "未检测到语音，请重新尝试"},
		{"audio-capture", SpeechAudioCaptureUnavailable, "无法访问麦克风，请检查权限设置"},
		{"not-allowed", SpeechPermissionDenied, "麦克风权限被拒绝，请在浏览器设置中允许访问麦克风"},
		{"network", SpeechNetworkError, "网络错误，请检查网络连接"},
		{"aborted", SpeechUnknown, "语音识别错误: aborted"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := SpeechErrorFromCode(tt.code)
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestStoreError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &StoreError{Op: "create", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store create: disk full", err.Error())
}
