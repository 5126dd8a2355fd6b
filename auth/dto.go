package auth

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the successful login payload.
type LoginResponse struct {
	Token       string   `json:"token"`
	Type        string   `json:"type"`
	UserID      int64    `json:"userId"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Sexo        string   `json:"sexo"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	// Role is sent by older servers instead of Roles.
	Role string `json:"role,omitempty"`
}

// TokenInfoResponse is the payload of GET /auth/token-info.
type TokenInfoResponse struct {
	TimeRemainingSeconds int64 `json:"timeRemainingSeconds"`
	TimeRemainingMs      int64 `json:"timeRemainingMs"`
	ExpirationTimeMs     int64 `json:"expirationTimeMs"`
	IsExpired            bool  `json:"isExpired"`
}

// SucursalRequest is the body of PUT /auth/sucursal.
type SucursalRequest struct {
	Sucursal string `json:"sucursal"`
}

// loginFailure is the error body returned with a rejected login.
type loginFailure struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	RemainingAttempts *int   `json:"remainingAttempts"`
	Blocked           bool   `json:"blocked"`
	UnblockTime       string `json:"unblockTime"`
}

// loginEnvelope accepts both the enveloped and the flat login payload.
type loginEnvelope struct {
	Success *bool          `json:"success"`
	Message string         `json:"message"`
	Data    *LoginResponse `json:"data"`
	LoginResponse
}

func (e loginEnvelope) response() LoginResponse {
	if e.Data != nil {
		return *e.Data
	}
	return e.LoginResponse
}
