package http

// LoginRequest carries the credentials, either as JSON or form fields.
type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier"`
	Secret     string `json:"secret"     form:"secret"`
}

// LoginResponse is the body of a successful login. The access token is also
// mirrored into the Authorization response header.
type LoginResponse struct {
	Token      string `json:"token"`
	Identifier string `json:"identifier"`
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Identifier  string `json:"identifier"`
	DisplayName string `json:"display_name,omitempty"`
	Secret      string `json:"secret"`
}

// SignupResponse echoes the created account.
type SignupResponse struct {
	UserID     string `json:"user_id"`
	Identifier string `json:"identifier"`
}

// UserInfoResponse describes the authenticated principal.
type UserInfoResponse struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// ErrorResponse is the generic JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the livez/readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks details the readiness of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
}
