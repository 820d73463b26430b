package shopapi

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-bff/pkg/safe"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type SendOTPRequest struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

type VerifyOTPRequest struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	OTP     string `json:"otp"`
	Purpose string `json:"purpose,omitempty"`
}

// OTPVerification reports whether the code was accepted. OTP login flows may
// also return tokens, carried in Auth.
type OTPVerification struct {
	Verified bool
	Message  string
	Auth     *types.AuthResult
}

type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*types.AuthResult, error) {
	resp, err := c.do(ctx, call{endpoint: "auth.register", method: http.MethodPost, path: "auth/register/", body: req})
	if err != nil {
		return nil, err
	}
	return authResultFrom(resp), nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*types.AuthResult, error) {
	resp, err := c.do(ctx, call{endpoint: "auth.login", method: http.MethodPost, path: "auth/login/", body: req})
	if err != nil {
		return nil, err
	}
	return authResultFrom(resp), nil
}

// SendOTP asks the remote API to deliver a one-time code; it returns the server message.
func (c *Client) SendOTP(ctx context.Context, req SendOTPRequest) (string, error) {
	resp, err := c.do(ctx, call{endpoint: "auth.send_otp", method: http.MethodPost, path: "auth/send-otp/", body: req})
	if err != nil {
		return "", err
	}
	return safe.StringOr(safe.Get(resp, "message", nil), "OTP sent"), nil
}

func (c *Client) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*OTPVerification, error) {
	resp, err := c.do(ctx, call{endpoint: "auth.verify_otp", method: http.MethodPost, path: "auth/verify-otp/", body: req})
	if err != nil {
		return nil, err
	}
	result := &OTPVerification{
		Verified: safe.Bool(safe.Get(resp, "verified", nil), true),
		Message:  safe.String(safe.Get(resp, "message", nil)),
	}
	if authResult := authResultFrom(resp); authResult.Access != "" {
		result.Auth = authResult
	}
	return result, nil
}

func (c *Client) Profile(ctx context.Context) (*types.User, error) {
	resp, err := c.do(ctx, call{endpoint: "auth.profile", method: http.MethodGet, path: "auth/profile/"})
	if err != nil {
		return nil, err
	}
	user := userFrom(resp)
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*types.User, error) {
	resp, err := c.do(ctx, call{endpoint: "auth.profile_update", method: http.MethodPut, path: "auth/profile/", body: update})
	if err != nil {
		return nil, err
	}
	user := userFrom(resp)
	return &user, nil
}
