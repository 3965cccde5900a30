// Package jwt provides JSON Web Token utilities for the enrollment API.
//
// Tokens are RS256-signed. The server holds the private key and issues
// tokens at login; validation only needs the public key.
//
// # Token Issuance
//
// Issue a token for an authenticated client or staff member:
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/private.pem",
//	    Issuer:         "recanto-api",
//	    ExpirationMins: 60,
//	})
//
//	token, expiresAt, err := service.Issue(clientID, jwt.RoleClient)
//
// # Token Validation
//
// Validate and extract claims:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	clientID := claims.Subject
//	if claims.IsStaff() { ... }
package jwt
