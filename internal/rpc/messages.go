package rpc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// ErrInvalidMessage is returned when a Struct lacks a field or holds the wrong kind.
var ErrInvalidMessage = errors.New("rpc: invalid message")

// Registration is the RegisterUser request.
type Registration struct {
	Username string
	Salt     []byte
	Verifier []byte
}

func (r Registration) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"username": r.Username,
		"salt":     base64.StdEncoding.EncodeToString(r.Salt),
		"verifier": base64.StdEncoding.EncodeToString(r.Verifier),
	})
}

func RegistrationFromStruct(s *structpb.Struct) (Registration, error) {
	var (
		r   Registration
		err error
	)
	if r.Username, err = stringField(s, "username"); err != nil {
		return r, err
	}
	if r.Salt, err = bytesField(s, "salt"); err != nil {
		return r, err
	}
	if r.Verifier, err = bytesField(s, "verifier"); err != nil {
		return r, err
	}
	return r, nil
}

// Credentials is the Login request.
type Credentials struct {
	Username string
	Verifier []byte
}

func (c Credentials) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"username": c.Username,
		"verifier": base64.StdEncoding.EncodeToString(c.Verifier),
	})
}

func CredentialsFromStruct(s *structpb.Struct) (Credentials, error) {
	var (
		c   Credentials
		err error
	)
	if c.Username, err = stringField(s, "username"); err != nil {
		return c, err
	}
	if c.Verifier, err = bytesField(s, "verifier"); err != nil {
		return c, err
	}
	return c, nil
}

// TokenPair is the Login and RefreshToken response.
type TokenPair struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

func (t TokenPair) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"user_id":       t.UserID,
		"access_token":  t.AccessToken,
		"refresh_token": t.RefreshToken,
	})
}

func TokenPairFromStruct(s *structpb.Struct) (TokenPair, error) {
	var (
		t   TokenPair
		err error
	)
	if t.UserID, err = stringField(s, "user_id"); err != nil {
		return t, err
	}
	if t.AccessToken, err = stringField(s, "access_token"); err != nil {
		return t, err
	}
	if t.RefreshToken, err = stringField(s, "refresh_token"); err != nil {
		return t, err
	}
	return t, nil
}

// UserRef is the RegisterUser response.
type UserRef struct {
	UserID string
}

func (u UserRef) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"user_id": u.UserID})
}

func UserRefFromStruct(s *structpb.Struct) (UserRef, error) {
	id, err := stringField(s, "user_id")
	return UserRef{UserID: id}, err
}

// NotebookRow is the FetchNotebook response (Found set) and the
// UpsertNotebook request (Found ignored).
type NotebookRow struct {
	Found     bool
	Payload   string
	Version   int64
	UpdatedAt string
}

func (n NotebookRow) Struct() (*structpb.Struct, error) {
	if n.Version > maxSafeInteger || n.Version < -maxSafeInteger {
		return nil, fmt.Errorf("%w: version %d out of range", ErrInvalidMessage, n.Version)
	}
	return structpb.NewStruct(map[string]any{
		"found":      n.Found,
		"payload":    n.Payload,
		"version":    n.Version,
		"updated_at": n.UpdatedAt,
	})
}

func NotebookRowFromStruct(s *structpb.Struct) (NotebookRow, error) {
	var (
		n   NotebookRow
		err error
	)
	if v, ok := s.GetFields()["found"]; ok {
		b, ok := v.GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return n, fmt.Errorf("%w: found is not a bool", ErrInvalidMessage)
		}
		n.Found = b.BoolValue
	}
	if n.Payload, err = stringField(s, "payload"); err != nil {
		return n, err
	}
	if n.Version, err = intField(s, "version"); err != nil {
		return n, err
	}
	if n.UpdatedAt, err = stringField(s, "updated_at"); err != nil {
		return n, err
	}
	return n, nil
}

// Struct numbers are float64; integers beyond 2^53 would lose precision.
const maxSafeInteger = 1<<53 - 1

func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrInvalidMessage, name)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %s is not a string", ErrInvalidMessage, name)
	}
	return str.StringValue, nil
}

func bytesField(s *structpb.Struct, name string) ([]byte, error) {
	str, err := stringField(s, name)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMessage, name, err)
	}
	return b, nil
}

func intField(s *structpb.Struct, name string) (int64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidMessage, name)
	}
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrInvalidMessage, name)
	}
	f := num.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > maxSafeInteger {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrInvalidMessage, name)
	}
	return int64(f), nil
}
