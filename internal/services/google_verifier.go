package services

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

// GoogleProfile is the identity a verified Google ID token asserts.
type GoogleProfile struct {
	Email string
	Name  string
}

// GoogleVerifier validates a Google-issued ID token against the
// configured OAuth client id.
type GoogleVerifier interface {
	Verify(ctx context.Context, tokenID string) (*GoogleProfile, error)
}

type googleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleVerifier{clientID: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, tokenID string) (*GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, tokenID, v.clientID)
	if err != nil {
		return nil, err
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google token has no email claim")
	}
	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = email
	}
	return &GoogleProfile{Email: email, Name: name}, nil
}
