package auth

import "fmt"

// UserType discriminates the kinds of accounts that can hold a token.
type UserType string

const (
	UserTypeUser     UserType = "user"
	UserTypeDoctor   UserType = "doctor"
	UserTypeProvider UserType = "hp"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeUser, UserTypeDoctor, UserTypeProvider:
		return true
	}
	return false
}

// Principal is the authenticated identity behind a request. It is a closed set:
// UserPrincipal, DoctorPrincipal and ProviderPrincipal are the only implementations.
type Principal interface {
	Subject() string
	Type() UserType
	sealed()
}

// UserPrincipal is a patient who logged in with a phone OTP.
type UserPrincipal struct {
	ID    string
	Phone string
}

// DoctorPrincipal is a doctor who logged in with a phone OTP.
type DoctorPrincipal struct {
	ID    string
	Phone string
}

// ProviderPrincipal is a healthcare provider account (email + password).
type ProviderPrincipal struct {
	ID    string
	Email string
}

func (p UserPrincipal) Subject() string     { return p.ID }
func (p DoctorPrincipal) Subject() string   { return p.ID }
func (p ProviderPrincipal) Subject() string { return p.ID }

func (UserPrincipal) Type() UserType     { return UserTypeUser }
func (DoctorPrincipal) Type() UserType   { return UserTypeDoctor }
func (ProviderPrincipal) Type() UserType { return UserTypeProvider }

func (UserPrincipal) sealed()     {}
func (DoctorPrincipal) sealed()   {}
func (ProviderPrincipal) sealed() {}

// toClaims flattens a principal into the token payload.
func toClaims(p Principal) (*Claims, error) {
	switch v := p.(type) {
	case UserPrincipal:
		return &Claims{ID: v.ID, Phone: v.Phone, UserType: UserTypeUser}, nil
	case DoctorPrincipal:
		return &Claims{ID: v.ID, Phone: v.Phone, UserType: UserTypeDoctor}, nil
	case ProviderPrincipal:
		return &Claims{ID: v.ID, Email: v.Email, UserType: UserTypeProvider}, nil
	default:
		return nil, fmt.Errorf("unsupported principal %T", p)
	}
}

// principal rebuilds the typed identity from parsed claims.
func (c *Claims) principal() (Principal, error) {
	if c.ID == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	switch c.UserType {
	case UserTypeUser:
		return UserPrincipal{ID: c.ID, Phone: c.Phone}, nil
	case UserTypeDoctor:
		return DoctorPrincipal{ID: c.ID, Phone: c.Phone}, nil
	case UserTypeProvider:
		return ProviderPrincipal{ID: c.ID, Email: c.Email}, nil
	default:
		return nil, fmt.Errorf("unknown user type %q", c.UserType)
	}
}
