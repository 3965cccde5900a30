// Package config manages application configuration for the enrollment API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and validation settings
//   - MailConfig: SMTP settings for enrollment notifications
//   - CEPConfig: postal-code lookup providers and timeout
//   - DraftingConfig: AI response-drafting endpoint
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	DB_HOST, DB_PORT     - SurrealDB address
//	DB_NAMESPACE, DB_DATABASE
//	DB_USER, DB_PASSWORD
//	JWT_PRIVATE_KEY_PATH - RSA private key (server signs tokens)
//	JWT_PUBLIC_KEY_PATH  - RSA public key (validation only)
//	MAIL_ENABLED         - turn SMTP notifications on
//	CEP_VIACEP_URL       - primary CEP provider
//	CEP_BRASILAPI_URL    - fallback CEP provider
//	DRAFT_ENDPOINT       - AI drafting service (empty disables it)
//
// Validate reports every missing or inconsistent value at once, so a
// misconfigured deployment fails fast with the full list.
package config
