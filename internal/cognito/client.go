package cognito

import "context"

// Client is the subset of the Cognito user pool API used for gardener accounts.
type Client interface {
	SignUp(ctx context.Context, input SignUpInput) (SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, input ConfirmSignUpInput) error
	Login(ctx context.Context, input LoginInput) (AuthOutput, error)
	RefreshTokens(ctx context.Context, input RefreshInput) (AuthOutput, error)
	GlobalSignOut(ctx context.Context, accessToken string) error
}

type SignUpInput struct {
	Email    string
	Password string
	// Nickname is stored as the standard "nickname" attribute when set.
	Nickname string
}

type SignUpOutput struct {
	Sub          string
	Confirmed    bool
	CodeDelivery string
}

type ConfirmSignUpInput struct {
	Email string
	Code  string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthOutput holds the tokens issued by the user pool. RefreshToken is empty
// on a refresh.
type AuthOutput struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int32
	TokenType    string
}

type RefreshInput struct {
	Email        string
	RefreshToken string
}
