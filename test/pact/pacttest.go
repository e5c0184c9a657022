//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	// Storefront -> remote auth API.
	AuthProviderName = "foodio-auth-api"
	AuthConsumerName = "foodio-storefront"

	// Storefront UI -> storefront API.
	StorefrontProviderName = "foodio-storefront"
	StorefrontConsumerName = "foodio-storefront-ui"

	StateUserExists     = "user alice@example.com exists"
	StateUserUnverified = "user alice@example.com awaits OTP"
	StateTokenValid     = "token pact-token is valid"
	StateTokenExpired   = "token pact-token has expired"
	StateCartEmpty      = "cart is empty"
	StateCartHasDish    = "cart holds two of dish D1"
)

const (
	UserEmail    = "alice@example.com"
	UserName     = "Alice Pact"
	UserPassword = "pact-pass"
	UserOTP      = "123456"
	UserToken    = "pact-token"

	DishID    = "D1"
	DishPrice = "300"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for a consumer/provider pair.
func PactFile(t testing.TB, consumer, provider string) string {
	t.Helper()
	return filepath.Join(PactDir(t), consumer+"-"+provider+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleUserPayload provides stable user data for auth interactions.
func ExampleUserPayload() map[string]any {
	return map[string]any{
		"_id":        "64f0c0ffee",
		"name":       UserName,
		"email":      UserEmail,
		"isVerified": true,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
