package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims are the identity fields every authenticated request carries.
type Claims struct {
	UserID     string
	CompanyID  string
	EmployeeID string
	Role       user.Role
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateSSEToken(userID string, companyID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (userID string, companyID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	NewContext(ctx context.Context, claims Claims) (context.Context, error)
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken mints an access token. Production tokens come from the
// identity service sharing the same secret; this is used by tooling and tests.
func (j *JWTService) GenerateAccessToken(c Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":     c.UserID,
		"company_id":  c.CompanyID,
		"employee_id": c.EmployeeID,
		"role":        string(c.Role),
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(userID string, companyID string) (token string, expiresIn int, err error) {
	// SSE tokens are short-lived (5 minutes)
	expiresIn = 300
	expiresAt := time.Now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":    userID,
		"company_id": companyID,
		"type":       "sse",
		"exp":        expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the user and company it was issued for
func (j *JWTService) ValidateSSEToken(tokenString string) (userID string, companyID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "sse" {
		return "", "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	userID, ok = userIDVal.(string)
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}

	companyIDVal, ok := token.Get("company_id")
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	companyID, ok = companyIDVal.(string)
	if !ok || companyID == "" {
		return "", "", jwt.ErrInvalidJWT()
	}

	return userID, companyID, nil
}

// FromContext extracts the identity claims placed in ctx by jwtauth.Verifier.
// company_id is mandatory; the others are returned empty when absent.
func FromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return Claims{}, fmt.Errorf("company_id claim is missing or invalid: %w", auth.ErrMissingClaims)
	}

	userID, _ := claims["user_id"].(string)
	employeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)

	return Claims{
		UserID:     userID,
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Role:       user.Role(role),
	}, nil
}

// NewContext attaches a freshly signed token carrying c to ctx, the same way the
// Verifier middleware would.
func (j *JWTService) NewContext(ctx context.Context, c Claims) (context.Context, error) {
	tokenString, _, err := j.GenerateAccessToken(c)
	if err != nil {
		return nil, err
	}
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return nil, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}
