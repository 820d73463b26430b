package auth

import "github.com/angelmondragon/storefront-bff/pkg/types"

type LoginInput struct {
	Email    string `json:"email" validate:"required_without=Phone,omitempty,email"`
	Phone    string `json:"phone" validate:"required_without=Email,omitempty,phone"`
	Password string `json:"password" validate:"required"`
}

// Result is returned by every step that signs the shopper in. Redirect is the
// path stored before authentication, consumed once, or "/".
type Result struct {
	User     types.User `json:"user"`
	Redirect string     `json:"redirect"`
}

// RegistrationStep names the wizard position kept in the session.
type RegistrationStep string

const (
	StepDetails  RegistrationStep = "details"
	StepOTPSent  RegistrationStep = "otp_sent"
	StepVerified RegistrationStep = "verified"
)

// RegisterDetails is step one of the wizard.
type RegisterDetails struct {
	FirstName string `json:"first_name" validate:"required,max=60"`
	LastName  string `json:"last_name" validate:"omitempty,max=60"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,phone"`
}

type RegisterVerify struct {
	OTP string `json:"otp" validate:"required,len=6,digits"`
}

type RegisterComplete struct {
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

// Registration is the wizard progress persisted between steps. The password
// only exists in the final request and is never stored.
type Registration struct {
	Step    RegistrationStep `json:"step"`
	Details RegisterDetails  `json:"details"`
}

type SendOTPInput struct {
	Email   string `json:"email" validate:"required_without=Phone,omitempty,email"`
	Phone   string `json:"phone" validate:"required_without=Email,omitempty,phone"`
	Purpose string `json:"purpose" validate:"omitempty,oneof=login registration password_reset"`
}

type VerifyOTPInput struct {
	Email   string `json:"email" validate:"required_without=Phone,omitempty,email"`
	Phone   string `json:"phone" validate:"required_without=Email,omitempty,phone"`
	OTP     string `json:"otp" validate:"required,len=6,digits"`
	Purpose string `json:"purpose" validate:"omitempty,oneof=login registration password_reset"`
}

// OTPResult reports verification; Result is set when the code also signed the shopper in.
type OTPResult struct {
	Verified bool    `json:"verified"`
	Message  string  `json:"message,omitempty"`
	Result   *Result `json:"auth,omitempty"`
}

type ProfileInput struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=60"`
	LastName  *string `json:"last_name" validate:"omitempty,max=60"`
	Phone     *string `json:"phone" validate:"omitempty,phone"`
}

// Status summarizes the session for the storefront shell.
type Status struct {
	Authenticated     bool   `json:"authenticated"`
	Visited           bool   `json:"visited"`
	RedirectAfterAuth string `json:"redirect_after_auth,omitempty"`
}
