package domain

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the authenticated identity plus its bearer token. A zero
// Session is anonymous.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.Role == RoleAdmin
}
