package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
)

var (
	// trans is the singleton English translator for validation errors.
	trans ut.Translator
	once  sync.Once
)

// Setup registers the validator with English translations on Gin's binding engine.
// It is safe to call more than once.
func Setup() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}
		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)
	})
}

// ErrMalformedBody is returned by Bind when the body does not decode into
// the target type.
var ErrMalformedBody = errors.New("malformed request body")

// FieldErrors maps JSON field names to human-readable validation messages.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(f))
}

// TranslateErrors converts validator errors into FieldErrors. It returns
// nil when err is not a validation error.
func TranslateErrors(err error) FieldErrors {
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	fields := make(FieldErrors, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Translate(trans)
	}
	return fields
}

// Bind binds and validates the request body into dst. It returns nil on
// success, FieldErrors when field rules fail, and an error wrapping
// ErrMalformedBody otherwise.
func Bind(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	if fields := TranslateErrors(err); fields != nil {
		return fields
	}
	return fmt.Errorf("%w: %w", ErrMalformedBody, err)
}

// UUIDParam returns the named path parameter when it is a well-formed UUID.
func UUIDParam(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if err := uuid.Validate(raw); err != nil {
		return "", false
	}
	return raw, true
}
