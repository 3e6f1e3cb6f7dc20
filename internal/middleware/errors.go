package middleware

// ガードが返す構造化コード（handlerのErrorResponseと同じ形で返す）
const (
	CodeTokenInvalid = "token_invalid"
	CodeTokenRevoked = "token_revoked"
	CodeAdminOnly    = "admin_only"
)

type guardResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func guardJSON(msg string, code string) guardResponse {
	return guardResponse{Error: msg, Code: code}
}
