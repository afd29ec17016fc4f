package entities

import (
	"errors"
	"fmt"
)

// Validation sentinels. A *ValidationError unwraps to the sentinel matching its Code.
var (
	ErrEmptyTitle         = errors.New("title is required")
	ErrInvalidType        = errors.New("invalid event type")
	ErrInvalidImportance  = errors.New("invalid importance")
	ErrUnknownEmotion     = errors.New("unknown emotion")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// ValidationCode identifies why a draft was rejected.
type ValidationCode string

const (
	CodeEmptyTitle         ValidationCode = "EmptyTitle"
	CodeInvalidType        ValidationCode = "InvalidType"
	CodeInvalidImportance  ValidationCode = "InvalidImportance"
	CodeUnknownEmotion     ValidationCode = "UnknownEmotion"
	CodeInvalidDate        ValidationCode = "InvalidDate"
	CodeInvalidCoordinates ValidationCode = "InvalidCoordinates"
)

var validationSentinels = map[ValidationCode]error{
	CodeEmptyTitle:         ErrEmptyTitle,
	CodeInvalidType:        ErrInvalidType,
	CodeInvalidImportance:  ErrInvalidImportance,
	CodeUnknownEmotion:     ErrUnknownEmotion,
	CodeInvalidDate:        ErrInvalidDate,
	CodeInvalidCoordinates: ErrInvalidCoordinates,
}

// ValidationError rejects a draft before it reaches the store.
type ValidationError struct {
	Code    ValidationCode
	Field   string
	Value   string
	Message string // user-facing
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return validationSentinels[e.Code]
}

// AuthErrorKind classifies identity provider failures.
type AuthErrorKind string

const (
	AuthInvalidCredentials AuthErrorKind = "InvalidCredentials"
	AuthInvalidEmail       AuthErrorKind = "InvalidEmail"
	AuthEmailNotVerified   AuthErrorKind = "EmailNotVerified"
	AuthEmailInUse         AuthErrorKind = "EmailInUse"
	AuthWeakPassword       AuthErrorKind = "WeakPassword"
	AuthRateLimited        AuthErrorKind = "RateLimited"
	AuthUnknown            AuthErrorKind = "Unknown"
)

// AuthOp names the identity operation that failed.
type AuthOp string

const (
	AuthOpSignIn  AuthOp = "signin"
	AuthOpSignUp  AuthOp = "signup"
	AuthOpSignOut AuthOp = "signout"
)

// AuthError is returned by identity providers.
type AuthError struct {
	Kind AuthErrorKind
	Op   AuthOp
	Err  error
}

// NewAuthError builds an AuthError.
func NewAuthError(op AuthOp, kind AuthErrorKind, err error) *AuthError {
	return &AuthError{Kind: kind, Op: op, Err: err}
}

// Message returns the localized message shown to the user.
func (e *AuthError) Message() string {
	switch e.Kind {
	case AuthInvalidCredentials:
		return "邮箱或密码错误"
	case AuthInvalidEmail:
		return "邮箱格式不正确"
	case AuthEmailNotVerified:
		return "请先验证邮箱"
	case AuthEmailInUse:
		return "该邮箱已被注册"
	case AuthWeakPassword:
		return fmt.Sprintf("密码过于简单，至少需要%d个字符", MinPasswordLength)
	case AuthRateLimited:
		return "请求过于频繁，请稍后再试"
	}
	switch e.Op {
	case AuthOpSignUp:
		return "注册失败"
	case AuthOpSignOut:
		return "登出失败"
	default:
		return "登录失败"
	}
}

func (e *AuthError) Error() string {
	if e.Kind == AuthUnknown && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message(), e.Err)
	}
	return e.Message()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AuthKindOf extracts the AuthErrorKind from err, or AuthUnknown.
func AuthKindOf(err error) AuthErrorKind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return AuthUnknown
}

// SpeechErrorKind classifies capture failures.
type SpeechErrorKind string

const (
	SpeechNoSpeechDetected        SpeechErrorKind = "NoSpeechDetected"
	SpeechAudioCaptureUnavailable SpeechErrorKind = "AudioCaptureUnavailable"
	SpeechPermissionDenied        SpeechErrorKind = "PermissionDenied"
	SpeechNetworkError            SpeechErrorKind = "NetworkError"
	SpeechUnsupported             SpeechErrorKind = "Unsupported"
	SpeechStartFailed             SpeechErrorKind = "StartFailed"
	SpeechUnknown                 SpeechErrorKind = "Unknown"
)

// SpeechError ends a capture session. It is never fatal.
type SpeechError struct {
	Kind   SpeechErrorKind
	Detail string
}

// SpeechErrorFromCode maps recognizer error codes to a SpeechError.
func SpeechErrorFromCode(code string) *SpeechError {
	switch code {
	case "no-speech":
		return &SpeechError{Kind: SpeechNoSpeechDetected}
	case "audio-capture":
		return &SpeechError{Kind: SpeechAudioCaptureUnavailable}
	case "not-allowed":
		return &SpeechError{Kind: SpeechPermissionDenied}
	case "network":
		return &SpeechError{Kind: SpeechNetworkError}
	default:
		return &SpeechError{Kind: SpeechUnknown, Detail: code}
	}
}

// Message returns the localized message shown to the user.
func (e *SpeechError) Message() string {
	switch e.Kind {
	case SpeechNoSpeechDetected:
		return "未检测到语音，请重新尝试"
	case SpeechAudioCaptureUnavailable:
		return "无法访问麦克风，请检查权限设置"
	case SpeechPermissionDenied:
		return "麦克风权限被拒绝，请在浏览器设置中允许访问麦克风"
	case SpeechNetworkError:
		return "网络错误，请检查网络连接"
	case SpeechUnsupported:
		return "当前环境不支持语音识别功能"
	case SpeechStartFailed:
		return "无法启动语音识别，请重试"
	default:
		return "语音识别错误: " + e.Detail
	}
}

func (e *SpeechError) Error() string {
	return e.Message()
}

// StoreError wraps a failure reported by the record store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
