package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken はトークンの署名・形式・有効期限のいずれかが不正な場合に返されます。
var ErrInvalidToken = errors.New("invalid session token")

// claims はセッショントークンのペイロードです。ユーザーIDのみを保持します。
type claims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// signer はHS256でセッショントークンを署名・検証します。
type signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// sign はユーザーIDを含む署名済みトークンを生成します。
func (s *signer) sign(userID uint) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// parse はトークンを検証してユーザーIDを取り出します。
// HMAC以外のアルゴリズム（noneを含む）は拒否します。
func (s *signer) parse(tokenStr string) (uint, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return c.UserID, nil
}
