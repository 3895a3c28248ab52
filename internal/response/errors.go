package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload  ErrCode = "INVALID_PAYLOAD"
	ErrInvalidQuestion ErrCode = "INVALID_QUESTION"
	ErrInvalidPoint    ErrCode = "INVALID_POINT"

	// ─── Questionnaire flow ────────────────────────────────────────────
	ErrAnswersIncomplete    ErrCode = "ANSWERS_INCOMPLETE"
	ErrTransitionNotAllowed ErrCode = "TRANSITION_NOT_ALLOWED"
	ErrNoResult             ErrCode = "NO_RESULT"
	ErrSessionBusy          ErrCode = "SESSION_BUSY"

	// ─── Export ────────────────────────────────────────────────────────
	ErrExportFailed ErrCode = "EXPORT_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrSessionInvalidated:
		return "세션이 만료되었습니다. 다시 로그인해 주세요."
	case ErrTokenRequired:
		return "인증 토큰이 필요합니다."
	case ErrTokenInvalid:
		return "인증 토큰이 유효하지 않습니다."
	case ErrTokenExpired:
		return "인증 토큰이 만료되었습니다."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "이 리소스에 접근할 권한이 없습니다."
	case ErrAdminAccessOnly:
		return "관리자만 접근할 수 있습니다."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "입력값을 확인해 주세요."
	case ErrInvalidPayload:
		return "요청 형식이 올바르지 않습니다."
	case ErrInvalidQuestion:
		return "존재하지 않는 문항입니다."
	case ErrInvalidPoint:
		return "점수는 1부터 4 사이여야 합니다."

	// ─── Questionnaire flow ────────────────────────────────────────────
	case ErrAnswersIncomplete:
		return "모든 문항에 1~4점을 하나씩 배정해 주세요."
	case ErrTransitionNotAllowed:
		return "현재 화면에서는 할 수 없는 작업입니다."
	case ErrNoResult:
		return "표시할 결과가 없습니다."
	case ErrSessionBusy:
		return "다른 요청이 처리 중입니다. 잠시 후 다시 시도해 주세요."

	// ─── Export ────────────────────────────────────────────────────────
	case ErrExportFailed:
		return "문서를 생성하지 못했습니다. 잠시 후 다시 시도해 주세요."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrNotFound:
		return "요청한 리소스를 찾을 수 없습니다."
	case ErrInternal:
		return "서버 내부 오류가 발생했습니다."
	default:
		return "알 수 없는 오류가 발생했습니다."
	}
}
