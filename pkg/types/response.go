package types

// Notice levels.
const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeDanger  = "danger"
)

// Notice is a user-facing message returned alongside a response.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type SuccessEnvelope struct {
	Data    any      `json:"data"`
	Notices []Notice `json:"notices,omitempty"`
}

// RedirectEnvelope accompanies a 303 so API clients see where a browser would go.
type RedirectEnvelope struct {
	Redirect string   `json:"redirect"`
	Notices  []Notice `json:"notices,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error   APIError `json:"error"`
	Notices []Notice `json:"notices,omitempty"`
}
