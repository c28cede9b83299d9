package api

// Имена заголовка и cookie, через которые передаются токены
const (
	// HeaderAccess заголовок с access token в запросах и в ответах /login, /reissue
	HeaderAccess = "access"
	// CookieRefresh HttpOnly cookie с refresh token
	CookieRefresh = "refresh"
)

// Credentials представляет тело запросов /join и /login
type Credentials struct {
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // пароль в открытом виде, передается только по TLS
}

// JoinResponse представляет ответ на успешную регистрацию
type JoinResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"` // роль, назначенная при регистрации
}

// MainResponse представляет ответ GET /
type MainResponse struct {
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
	Authenticated bool   `json:"authenticated"` // false для анонимного запроса
}

// MeResponse представляет ответ GET /me
type MeResponse struct {
	Username       string `json:"username"`
	Role           string `json:"role"`
	ActiveSessions int    `json:"active_sessions"` // количество живых refresh token
}

// AdminResponse представляет ответ GET /admin
type AdminResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// LogoutResponse представляет ответ POST /logout?all=true
type LogoutResponse struct {
	Revoked int `json:"revoked"` // количество отозванных refresh token
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
