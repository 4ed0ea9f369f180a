package errors

var (
	ErrInvalidCredentials = &DomainError{
		Kind:    KindAuthentication,
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid email or password",
	}
	ErrInvalidCode = &DomainError{
		Kind:    KindAuthentication,
		Code:    "INVALID_CODE",
		Message: "Invalid verification code",
	}
	ErrTwoFactorNotEnabled = &DomainError{
		Kind:    KindValidation,
		Code:    "TWO_FACTOR_NOT_ENABLED",
		Message: "Two-factor authentication is not enabled",
	}
	ErrTwoFactorAlreadyEnabled = &DomainError{
		Kind:    KindValidation,
		Code:    "TWO_FACTOR_ALREADY_ENABLED",
		Message: "Two-factor authentication is already enabled",
	}
	ErrIncorrectPassword = &DomainError{
		Kind:    KindValidation,
		Code:    "INCORRECT_PASSWORD",
		Message: "Current password is incorrect",
	}

	ErrTokenRequired = &DomainError{
		Kind:    KindValidation,
		Code:    "TOKEN_REQUIRED",
		Message: "Token required",
	}
	ErrTokenInvalid = &DomainError{
		Kind:    KindAuthentication,
		Code:    "TOKEN_INVALID",
		Message: "Invalid or expired token",
	}
	ErrTokenExpired = &DomainError{
		Kind:    KindAuthentication,
		Code:    "TOKEN_EXPIRED",
		Message: "Token expired",
	}
	ErrCodeRequired = &DomainError{
		Kind:    KindValidation,
		Code:    "CODE_REQUIRED",
		Message: "Verification code required",
	}
	ErrNoPendingVerification = &DomainError{
		Kind:    KindAuthentication,
		Code:    "NO_PENDING_VERIFICATION",
		Message: "No verification request found",
	}
	ErrCodeExpired = &DomainError{
		Kind:    KindAuthentication,
		Code:    "CODE_EXPIRED",
		Message: "Verification code expired",
	}
	ErrCodeMismatch = &DomainError{
		Kind:    KindAuthentication,
		Code:    "CODE_MISMATCH",
		Message: "Invalid verification code",
	}
)
