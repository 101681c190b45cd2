package domain

// Roles understood by the authorization layer.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is a credential record. The password is stored only as a bcrypt
// hash; users are never updated or deleted through the API.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// LoginResponse mirrors the wire format the frontend expects.
type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresIn string `json:"expiresIn"`
}

// Principal is the authenticated identity attached to a request by the
// auth middleware and read by handlers. It is passed explicitly, never
// held in package-level state.
type Principal struct {
	Username string
	Role     string
}
