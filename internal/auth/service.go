package auth

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-bff/internal/shopapi"
	pkgauth "github.com/angelmondragon/storefront-bff/pkg/auth"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/session"
	"github.com/angelmondragon/storefront-bff/pkg/types"
	"github.com/angelmondragon/storefront-bff/pkg/validation"
)

const (
	DefaultRedirect        = "/"
	otpPurposeLogin        = "login"
	otpPurposeRegistration = "registration"
)

type API interface {
	Register(ctx context.Context, req shopapi.RegisterRequest) (*types.AuthResult, error)
	Login(ctx context.Context, req shopapi.LoginRequest) (*types.AuthResult, error)
	SendOTP(ctx context.Context, req shopapi.SendOTPRequest) (string, error)
	VerifyOTP(ctx context.Context, req shopapi.VerifyOTPRequest) (*shopapi.OTPVerification, error)
	Profile(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, update shopapi.ProfileUpdate) (*types.User, error)
}

type sessionStore interface {
	Token(ctx context.Context, sessionID string) (string, error)
	SetToken(ctx context.Context, sessionID, token string) error
	ClearToken(ctx context.Context, sessionID string) error
	Visited(ctx context.Context, sessionID string) (bool, error)
	MarkVisited(ctx context.Context, sessionID string) error
	RedirectAfterAuth(ctx context.Context, sessionID string) (string, error)
	SetRedirectAfterAuth(ctx context.Context, sessionID, path string) error
	TakeRedirectAfterAuth(ctx context.Context, sessionID string) (string, error)
	Registration(ctx context.Context, sessionID string, dst any) (bool, error)
	SaveRegistration(ctx context.Context, sessionID string, progress any) error
	ClearRegistration(ctx context.Context, sessionID string) error
	ClearCheckout(ctx context.Context, sessionID string) error
	ClearBuyNowItem(ctx context.Context, sessionID string) error
	SignOut(ctx context.Context, sessionID string) error
}

type Service interface {
	Login(ctx context.Context, input LoginInput) (*Result, error)
	Logout(ctx context.Context) error
	StartRegistration(ctx context.Context, details RegisterDetails) (*Registration, error)
	VerifyRegistration(ctx context.Context, input RegisterVerify) (*Registration, error)
	CompleteRegistration(ctx context.Context, input RegisterComplete) (*Result, error)
	SendOTP(ctx context.Context, input SendOTPInput) (string, error)
	VerifyOTP(ctx context.Context, input VerifyOTPInput) (*OTPResult, error)
	Profile(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, input ProfileInput) (*types.User, error)
	Status(ctx context.Context) (*Status, error)
	MarkVisited(ctx context.Context) error
	SetRedirect(ctx context.Context, path string) error
}

type ServiceParams struct {
	API    API
	Store  sessionStore
	Logger *logger.Logger
}

type service struct {
	api   API
	store sessionStore
	logg  *logger.Logger
	clock func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auth api is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{api: params.API, store: params.Store, logg: logg, clock: time.Now}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*Result, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return nil, err
	}
	authResult, err := s.api.Login(ctx, shopapi.LoginRequest{Email: input.Email, Phone: input.Phone, Password: input.Password})
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, sessionID, authResult)
}

// Logout forgets the token and any in-flight flow state of the session.
func (s *service) Logout(ctx context.Context) error {
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return err
	}
	if err := s.store.SignOut(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	return nil
}

func (s *service) StartRegistration(ctx context.Context, details RegisterDetails) (*Registration, error) {
	details.FirstName = strings.TrimSpace(details.FirstName)
	details.LastName = strings.TrimSpace(details.LastName)
	details.Email = strings.TrimSpace(strings.ToLower(details.Email))
	details.Phone = strings.TrimSpace(details.Phone)
	if err := validation.Struct(&details); err != nil {
		return nil, err
	}
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.api.SendOTP(ctx, shopapi.SendOTPRequest{Phone: details.Phone, Email: details.Email, Purpose: otpPurposeRegistration}); err != nil {
		return nil, err
	}
	progress := &Registration{Step: StepOTPSent, Details: details}
	if err := s.store.SaveRegistration(ctx, sessionID, progress); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save registration")
	}
	return progress, nil
}

func (s *service) VerifyRegistration(ctx context.Context, input RegisterVerify) (*Registration, error) {
	input.OTP = strings.TrimSpace(input.OTP)
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	sessionID, progress, err := s.registration(ctx, StepOTPSent)
	if err != nil {
		return nil, err
	}
	verification, err := s.api.VerifyOTP(ctx, shopapi.VerifyOTPRequest{
		Phone:   progress.Details.Phone,
		Email:   progress.Details.Email,
		OTP:     input.OTP,
		Purpose: otpPurposeRegistration,
	})
	if err != nil {
		return nil, err
	}
	if !verification.Verified {
		msg := verification.Message
		if msg == "" {
			msg = "invalid OTP"
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msg).
			WithFields(pkgerrors.FieldErrors{"otp": {msg}})
	}
	progress.Step = StepVerified
	if err := s.store.SaveRegistration(ctx, sessionID, progress); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save registration")
	}
	return progress, nil
}

func (s *service) CompleteRegistration(ctx context.Context, input RegisterComplete) (*Result, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	sessionID, progress, err := s.registration(ctx, StepVerified)
	if err != nil {
		return nil, err
	}
	authResult, err := s.api.Register(ctx, shopapi.RegisterRequest{
		Email:     progress.Details.Email,
		Phone:     progress.Details.Phone,
		Password:  input.Password,
		Password2: input.Password2,
		FirstName: progress.Details.FirstName,
		LastName:  progress.Details.LastName,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.ClearRegistration(ctx, sessionID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear registration")
	}
	if authResult.Access == "" {
		// some deployments only create the account; sign in explicitly
		authResult, err = s.api.Login(ctx, shopapi.LoginRequest{Email: progress.Details.Email, Password: input.Password})
		if err != nil {
			return nil, err
		}
	}
	return s.signIn(ctx, sessionID, authResult)
}

// registration loads the wizard and checks it sits at want.
func (s *service) registration(ctx context.Context, want RegistrationStep) (string, *Registration, error) {
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return "", nil, err
	}
	var progress Registration
	found, err := s.store.Registration(ctx, sessionID, &progress)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load registration")
	}
	if !found {
		progress.Step = StepDetails
	}
	if progress.Step != want {
		return "", nil, pkgerrors.New(pkgerrors.CodeStateConflict, "registration step out of order").
			WithDetails(map[string]any{"step": string(progress.Step), "expected": string(want)})
	}
	return sessionID, &progress, nil
}

func (s *service) SendOTP(ctx context.Context, input SendOTPInput) (string, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validation.Struct(&input); err != nil {
		return "", err
	}
	if input.Purpose == "" {
		input.Purpose = otpPurposeLogin
	}
	return s.api.SendOTP(ctx, shopapi.SendOTPRequest{Phone: input.Phone, Email: input.Email, Purpose: input.Purpose})
}

// VerifyOTP checks a code; when the remote API returns tokens the shopper is signed in.
func (s *service) VerifyOTP(ctx context.Context, input VerifyOTPInput) (*OTPResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	input.OTP = strings.TrimSpace(input.OTP)
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	if input.Purpose == "" {
		input.Purpose = otpPurposeLogin
	}
	verification, err := s.api.VerifyOTP(ctx, shopapi.VerifyOTPRequest{Phone: input.Phone, Email: input.Email, OTP: input.OTP, Purpose: input.Purpose})
	if err != nil {
		return nil, err
	}
	out := &OTPResult{Verified: verification.Verified, Message: verification.Message}
	if verification.Verified && verification.Auth != nil {
		sessionID, err := session.RequireID(ctx)
		if err != nil {
			return nil, err
		}
		result, err := s.signIn(ctx, sessionID, verification.Auth)
		if err != nil {
			return nil, err
		}
		out.Result = result
	}
	return out, nil
}

func (s *service) Profile(ctx context.Context) (*types.User, error) {
	return s.api.Profile(ctx)
}

func (s *service) UpdateProfile(ctx context.Context, input ProfileInput) (*types.User, error) {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	input.FirstName = trim(input.FirstName)
	input.LastName = trim(input.LastName)
	input.Phone = trim(input.Phone)
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	if input.FirstName == nil && input.LastName == nil && input.Phone == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	return s.api.UpdateProfile(ctx, shopapi.ProfileUpdate{FirstName: input.FirstName, LastName: input.LastName, Phone: input.Phone})
}

func (s *service) Status(ctx context.Context) (*Status, error) {
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return nil, err
	}
	token, err := s.store.Token(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	visited, err := s.store.Visited(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	redirect, err := s.store.RedirectAfterAuth(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return &Status{
		Authenticated:     token != "" && !pkgauth.Expired(token, s.clock()),
		Visited:           visited,
		RedirectAfterAuth: redirect,
	}, nil
}

func (s *service) MarkVisited(ctx context.Context) error {
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return err
	}
	return s.store.MarkVisited(ctx, sessionID)
}

// SetRedirect remembers where to send the shopper after signing in. Only
// same-site absolute paths are accepted.
func (s *service) SetRedirect(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if !safeRedirect(path) {
		return pkgerrors.New(pkgerrors.CodeValidation, "redirect must be a local path").
			WithFields(pkgerrors.FieldErrors{"path": {"must start with a single /"}})
	}
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return err
	}
	return s.store.SetRedirectAfterAuth(ctx, sessionID, path)
}

func (s *service) signIn(ctx context.Context, sessionID string, authResult *types.AuthResult) (*Result, error) {
	if authResult == nil || authResult.Access == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "no access token in response")
	}
	if err := s.store.SetToken(ctx, sessionID, authResult.Access); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store token")
	}
	redirect, err := s.store.TakeRedirectAfterAuth(ctx, sessionID)
	if err != nil {
		s.logg.Warn(ctx, "redirect after auth unavailable: "+err.Error())
	}
	if !safeRedirect(redirect) || strings.HasPrefix(redirect, pkgauth.LoginPath) {
		redirect = DefaultRedirect
	}
	if uid := authResult.User.ID; uid != "" {
		ctx = s.logg.WithUserID(ctx, uid)
	}
	s.logg.Info(ctx, "shopper signed in")
	return &Result{User: authResult.User, Redirect: redirect}, nil
}

func safeRedirect(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//") && !strings.Contains(path, "\\")
}
