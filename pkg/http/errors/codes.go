package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeAdminRequired          = "admin_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// Auth flow errors
	ErrCodeRegistrationFailed = "registration_failed"
	ErrCodeLoginFailed        = "login_failed"

	// Question bank errors
	ErrCodeQuestionFetchFailed  = "question_fetch_failed"
	ErrCodeQuestionCreateFailed = "question_create_failed"
	ErrCodeQuestionUpdateFailed = "question_update_failed"
	ErrCodeQuestionDeleteFailed = "question_delete_failed"
	ErrCodeInvalidQuestionID    = "invalid_question_id"
	ErrCodeInvalidCSV           = "invalid_csv"
	ErrCodeImportFailed         = "import_failed"
	ErrCodeExportFailed         = "export_failed"

	// Topic tag errors
	ErrCodeTagFetchFailed  = "tag_fetch_failed"
	ErrCodeTagCreateFailed = "tag_create_failed"
	ErrCodeTagDeleteFailed = "tag_delete_failed"
	ErrCodeInvalidTagID    = "invalid_tag_id"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"

	// OAuth errors
	ErrCodeOAuthNotConfigured  = "oauth_not_configured"
	ErrCodeOAuthStartFailed    = "oauth_start_failed"
	ErrCodeOAuthCallbackFailed = "oauth_callback_failed"
	ErrCodeOAuthMissingCode    = "missing_code"
	ErrCodeOAuthInvalidState   = "invalid_state"
)
