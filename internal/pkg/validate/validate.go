package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-phone-verify/internal/domain"
	"github.com/go-phone-verify/internal/pkg/otpcode"
	"github.com/go-phone-verify/internal/pkg/phone"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// v is the package-level singleton validator. Custom tags and translations are
// registered once at package load time, before the first call to Struct.
var (
	v     = validator.New(validator.WithRequiredStructEnabled())
	trans ut.Translator
)

func init() {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	trans, _ = ut.New(en.New()).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		panic("register validator translations: " + err.Error())
	}

	register("phone", "{0} must be 10-15 digits, optionally prefixed with '+'", func(fl validator.FieldLevel) bool {
		return phone.Valid(fl.Field().String())
	})
	register("otpcode", "{0} must be exactly 6 digits", func(fl validator.FieldLevel) bool {
		return otpcode.Valid(fl.Field().String())
	})
}

func register(tag, msg string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("register validation " + tag + ": " + err.Error())
	}
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, msg, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return s
		},
	)
}

// Struct validates the given struct using its validate tags.
// Field failures come back as *domain.ValidationError keyed by JSON name.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &domain.ValidationError{Fields: make(map[string]string, len(ve))}
	for _, fe := range ve {
		out.Fields[fe.Field()] = fe.Translate(trans)
	}
	return out
}
