package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jaekwang-park/plantcare-api/internal/cognito"
	"github.com/jaekwang-park/plantcare-api/internal/model"
	"github.com/jaekwang-park/plantcare-api/internal/repository"
)

const maxNicknameLen = 40

// AccountService handles gardener sign-up and sessions against Cognito and
// keeps the local gardener row in sync.
type AccountService struct {
	cognito   cognito.Client
	gardeners repository.GardenerRepository
}

func NewAccountService(client cognito.Client, gardeners repository.GardenerRepository) *AccountService {
	return &AccountService{cognito: client, gardeners: gardeners}
}

type SignUpInput struct {
	Email    string
	Password string
	Nickname string
}

type SignUpOutput struct {
	Sub          string `json:"sub"`
	Confirmed    bool   `json:"confirmed"`
	CodeDelivery string `json:"code_delivery"`
}

type TokenOutput struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int32  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f[0])
		}
	}
	return nil
}

func (s *AccountService) SignUp(ctx context.Context, input SignUpInput) (SignUpOutput, error) {
	if err := required([2]string{"email", input.Email}, [2]string{"password", input.Password}); err != nil {
		return SignUpOutput{}, err
	}
	if len(input.Nickname) > maxNicknameLen {
		return SignUpOutput{}, fmt.Errorf("%w: nickname must be at most %d characters", ErrInvalidInput, maxNicknameLen)
	}

	out, err := s.cognito.SignUp(ctx, cognito.SignUpInput{
		Email:    input.Email,
		Password: input.Password,
		Nickname: input.Nickname,
	})
	if err != nil {
		return SignUpOutput{}, err
	}
	return SignUpOutput{Sub: out.Sub, Confirmed: out.Confirmed, CodeDelivery: out.CodeDelivery}, nil
}

func (s *AccountService) ConfirmSignUp(ctx context.Context, email, code string) error {
	if err := required([2]string{"email", email}, [2]string{"code", code}); err != nil {
		return err
	}
	return s.cognito.ConfirmSignUp(ctx, cognito.ConfirmSignUpInput{Email: email, Code: code})
}

// Login authenticates against Cognito and provisions the gardener row on
// first login.
func (s *AccountService) Login(ctx context.Context, email, password string) (TokenOutput, error) {
	if err := required([2]string{"email", email}, [2]string{"password", password}); err != nil {
		return TokenOutput{}, err
	}

	out, err := s.cognito.Login(ctx, cognito.LoginInput{Email: email, Password: password})
	if err != nil {
		return TokenOutput{}, err
	}

	sub, nickname, err := readIDToken(out.IDToken)
	if err != nil {
		return TokenOutput{}, fmt.Errorf("failed to read sub from id token: %w", err)
	}
	if _, err := s.gardeners.GetOrCreate(ctx, sub, email, nickname); err != nil {
		return TokenOutput{}, fmt.Errorf("failed to provision gardener: %w", err)
	}

	return tokens(out), nil
}

func (s *AccountService) Refresh(ctx context.Context, email, refreshToken string) (TokenOutput, error) {
	if err := required([2]string{"email", email}, [2]string{"refresh_token", refreshToken}); err != nil {
		return TokenOutput{}, err
	}

	out, err := s.cognito.RefreshTokens(ctx, cognito.RefreshInput{Email: email, RefreshToken: refreshToken})
	if err != nil {
		return TokenOutput{}, err
	}
	return tokens(out), nil
}

func (s *AccountService) Logout(ctx context.Context, accessToken string) error {
	if err := required([2]string{"access_token", accessToken}); err != nil {
		return err
	}
	return s.cognito.GlobalSignOut(ctx, accessToken)
}

func (s *AccountService) Profile(ctx context.Context, gardenerID string) (model.Gardener, error) {
	g, err := s.gardeners.GetByID(ctx, gardenerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Gardener{}, ErrNotFound
		}
		return model.Gardener{}, fmt.Errorf("failed to get gardener: %w", err)
	}
	return g, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, gardenerID, nickname string) (model.Gardener, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return model.Gardener{}, fmt.Errorf("%w: nickname is required", ErrInvalidInput)
	}
	if len(nickname) > maxNicknameLen {
		return model.Gardener{}, fmt.Errorf("%w: nickname must be at most %d characters", ErrInvalidInput, maxNicknameLen)
	}

	g, err := s.Profile(ctx, gardenerID)
	if err != nil {
		return model.Gardener{}, err
	}
	g.Nickname = nickname

	updated, err := s.gardeners.Update(ctx, g)
	if err != nil {
		return model.Gardener{}, fmt.Errorf("failed to update gardener: %w", err)
	}
	return updated, nil
}

func tokens(out cognito.AuthOutput) TokenOutput {
	return TokenOutput{
		IDToken:      out.IDToken,
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
		TokenType:    out.TokenType,
	}
}

type idClaims struct {
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// readIDToken returns the sub and nickname claims of a token Cognito has just
// issued. The signature is not checked.
func readIDToken(idToken string) (sub, nickname string, err error) {
	var claims idClaims
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, &claims); err != nil {
		return "", "", fmt.Errorf("failed to parse id token: %w", err)
	}
	if claims.Subject == "" {
		return "", "", errors.New("sub claim not found in JWT")
	}
	return claims.Subject, claims.Nickname, nil
}
