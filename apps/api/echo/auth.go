package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

var (
	contextTokenKey = "userToken"
	signingMethod   = middleware.AlgorithmHS256
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	AccountType user.Role `json:"accountType"`
}

func (c Claims) IsAdmin() bool { return c.AccountType == user.RoleAdmin }

// UserID is the id of the authenticated user.
func (c Claims) UserID() (primitive.ObjectID, error) {
	return core.ParseID(c.ID)
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: signingMethod,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func GetUserClaims(usr user.User, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID.Hex(),
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		ID:          usr.ID.Hex(),
		Email:       usr.Email,
		AccountType: usr.AccountType,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(signingMethod), claims)
	ss, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// contextUser is the acting user as known from the token, for logs.
func contextUser(ctx echo.Context) (user.User, bool) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, false
	}
	usr := user.User{Email: claims.Email, AccountType: claims.AccountType}
	usr.ID, _ = claims.UserID()
	return usr, true
}
