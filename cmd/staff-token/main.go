package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/recanto/api/pkg/jwt"
)

// staff-token issues a staff JWT for local development and operations.
// It can also generate the RSA key pair the server signs with.
func main() {
	privateKeyPath := flag.String("key", "./keys/private.pem", "Path to JWT private key")
	publicKeyPath := flag.String("pub", "./keys/public.pem", "Path to JWT public key (only for -generate-keys)")
	generateKeys := flag.Bool("generate-keys", false, "Generate a new RSA key pair and exit")
	subject := flag.String("subject", "staff-dev", "Subject (staff identifier) for the token")
	email := flag.String("email", "staff@recantodasgarcas.org.br", "Email for the token")
	issuer := flag.String("issuer", "recanto-api", "JWT issuer")
	expMins := flag.Int("exp", 60*24*7, "Token expiration in minutes (default: 7 days)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *generateKeys {
		if err := jwt.GenerateKeyPair(*privateKeyPath, *publicKeyPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating key pair: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Key pair written to %s and %s\n", *privateKeyPath, *publicKeyPath)
		return
	}

	// Create JWT service with just the private key
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: *privateKeyPath,
		Issuer:         *issuer,
		ExpirationMins: *expMins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nGenerate keys first with: staff-token -generate-keys\n")
		os.Exit(1)
	}

	token, err := jwtService.Sign(jwt.Claims{
		Subject: *subject,
		Email:   *email,
		Role:    jwt.RoleStaff,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   *expMins * 60,
			"subject":      *subject,
			"email":        *email,
			"role":         jwt.RoleStaff,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
	} else {
		expTime := time.Now().Add(time.Duration(*expMins) * time.Minute)
		fmt.Println("Staff Token Generated")
		fmt.Println("=====================")
		fmt.Printf("Subject:  %s\n", *subject)
		fmt.Printf("Email:    %s\n", *email)
		fmt.Printf("Role:     %s\n", jwt.RoleStaff)
		fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(token)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/api/avaliacoes\n", token[:50]+"...")
	}
}
