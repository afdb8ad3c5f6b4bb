package auth

import (
	"testing"

	"github.com/gespro/gespro-api/internal/config"
	"github.com/gespro/gespro-api/internal/constant"
	"github.com/golang-jwt/jwt/v5"
)

// Perform token generation and verify the generated token to ensure VerifyJwtToken is correct
func TestJWT(t *testing.T) {
	jwtService := NewJwt(config.AuthConfig{JWT_SECRET: "test-secret"}, nil)

	payload := JWTPayload{
		ID:        "id1234",
		Email:     "test@gmail.com",
		FirstName: "Test",
		LastName:  "User",
	}

	refreshToken, accessToken, err := jwtService.GenerateRefreshAndAccessToken(payload)
	if err != nil {
		t.Fatalf("An error occurred during refresh token and access token generation. Error: %v", err)
	}

	refreshClaims, err := jwtService.VerifyJwtToken(*refreshToken)
	if err != nil {
		t.Errorf("An error occurred during refresh token verification. Error: %v", err)
	}
	if refreshClaims.Type != constant.JWT_TYPE_REFRESH {
		t.Errorf("Expected refresh token type, got %s", refreshClaims.Type)
	}

	accessClaims, err := jwtService.VerifyJwtToken(*accessToken)
	if err != nil {
		t.Errorf("An error occurred during access token verification. Error: %v", err)
	}
	if accessClaims.Type != constant.JWT_TYPE_ACCESS {
		t.Errorf("Expected access token type, got %s", accessClaims.Type)
	}
	if accessClaims.User.ID != payload.ID || accessClaims.User.Email != payload.Email {
		t.Errorf("Expected claims to round-trip the payload, got %+v", accessClaims.User)
	}
}

// A correctly signed token that carries no iat/exp claims must fail
// verification with an error instead of panicking on the claim lookup.
func TestVerifyJwtTokenMissingTimestamps(t *testing.T) {
	jwtService := NewJwt(config.AuthConfig{JWT_SECRET: "test-secret"}, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": JWTPayload{ID: "id1234"},
		"type": constant.JWT_TYPE_ACCESS,
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Token generation failed: %v", err)
	}

	if _, err := jwtService.VerifyJwtToken(signed); err == nil {
		t.Error("Expected verification of a token without iat/exp to fail")
	}
}

func TestVerifyJwtTokenRejectsWrongSecret(t *testing.T) {
	jwtService := NewJwt(config.AuthConfig{JWT_SECRET: "test-secret"}, nil)
	other := NewJwt(config.AuthConfig{JWT_SECRET: "other-secret"}, nil)

	_, accessToken, err := jwtService.GenerateRefreshAndAccessToken(JWTPayload{ID: "id1234"})
	if err != nil {
		t.Fatalf("Token generation failed: %v", err)
	}

	if _, err := other.VerifyJwtToken(*accessToken); err == nil {
		t.Error("Expected verification with a different secret to fail")
	}
}
