package models

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCustomer = "customer"
)

type User struct {
	ID           int    `json:"user_id"` //nolint:tagliatelle
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"` //nolint:tagliatelle
	Role         string `json:"role"`
}

// Principal is the authenticated caller extracted from a token.
type Principal struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}

	return false
}
