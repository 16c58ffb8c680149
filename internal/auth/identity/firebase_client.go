package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth/domain"
)

// FirebaseClient implements Client against the Firebase Auth REST API.
type FirebaseClient struct {
	svc *identitytoolkit.Service
}

// NewFirebaseClient builds a client authenticated with a web API key.
// endpoint overrides the API base URL (used for the emulator and tests).
func NewFirebaseClient(ctx context.Context, apiKey, endpoint string) (*FirebaseClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("firebase api key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit service: %w", err)
	}
	return &FirebaseClient{svc: svc}, nil
}

func (c *FirebaseClient) SignIn(ctx context.Context, email, password string) (*domain.Credentials, error) {
	resp, err := c.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify(err, apperrors.KindNotAuthenticated)
	}

	return &domain.Credentials{
		Identity: domain.Identity{
			ID:          resp.LocalId,
			Email:       resp.Email,
			DisplayName: resp.DisplayName,
		},
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (c *FirebaseClient) SignUp(ctx context.Context, email, password, displayName string) (*domain.Credentials, error) {
	resp, err := c.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify(err, apperrors.KindValidation)
	}

	return &domain.Credentials{
		Identity: domain.Identity{
			ID:          resp.LocalId,
			Email:       resp.Email,
			DisplayName: resp.DisplayName,
		},
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (c *FirebaseClient) SendPasswordReset(ctx context.Context, email string) error {
	_, err := c.svc.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}).Context(ctx).Do()
	if err != nil {
		return classify(err, apperrors.KindValidation)
	}
	return nil
}

// classify maps a rejected request (HTTP 400) to rejected, and everything
// else to KindStoreUnavailable. The provider's message is kept.
func classify(err error, rejected apperrors.Kind) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = http.StatusText(gerr.Code)
		}
		if gerr.Code == http.StatusBadRequest {
			return &apperrors.Error{Kind: rejected, Message: msg, Err: err}
		}
		return &apperrors.Error{Kind: apperrors.KindStoreUnavailable, Message: msg, Err: err}
	}
	return apperrors.Unavailable(err)
}
