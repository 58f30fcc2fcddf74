package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for Khebrah.
// The token does not establish real identity (authentication is simulated);
// it only binds the client to its in-memory session.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// SessionID is the identifier of the in-memory session the token is bound to.
	// The session (and with it the user profile) lives only for the process lifetime.
	SessionID string `json:"session_id"`

	// Name is the display name of the signed-in member, carried for convenience.
	Name string `json:"name"`

	// Avatar is the URL of the member's avatar image.
	Avatar string `json:"avatar,omitempty"`
}
