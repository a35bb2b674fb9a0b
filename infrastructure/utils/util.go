package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt"

	"imospy/infrastructure/logger"
)

var validate = validator.New()

// ValidateStruct runs the `validate` tags of a request DTO.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}

// FirstFieldError returns the first failed field of a validation error.
func FirstFieldError(err error) (validator.FieldError, bool) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		return vErrs[0], true
	}
	return nil, false
}

// ValidationMessage renders a validation error for API clients.
func ValidationMessage(err error) string {
	if fe, ok := FirstFieldError(err); ok {
		return fmt.Sprintf("field %s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
	return err.Error()
}

// GenerateToken signs payload with HS256, the method the API middleware accepts.
func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}
