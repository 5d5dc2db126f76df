package auth

import "github.com/gin-gonic/gin"

const principalKey = "principal"

// GetPrincipal returns the authenticated principal, if any.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// GetUser returns the calling patient.
func GetUser(c *gin.Context) (UserPrincipal, bool) {
	p, _ := GetPrincipal(c)
	u, ok := p.(UserPrincipal)
	return u, ok
}

// GetDoctor returns the calling doctor.
func GetDoctor(c *gin.Context) (DoctorPrincipal, bool) {
	p, _ := GetPrincipal(c)
	d, ok := p.(DoctorPrincipal)
	return d, ok
}

// GetProvider returns the calling healthcare provider.
func GetProvider(c *gin.Context) (ProviderPrincipal, bool) {
	p, _ := GetPrincipal(c)
	hp, ok := p.(ProviderPrincipal)
	return hp, ok
}

// SetPrincipal stores p on the context. Used by tests that bypass the token middleware.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}
