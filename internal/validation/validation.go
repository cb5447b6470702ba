// Package validation owns the validator engine shared by gin request binding
// and client-side form submission, plus its English translations.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	setupOnce  sync.Once
	engine     *validator.Validate
	translator ut.Translator
)

func setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			v = validator.New()
			v.SetTagName("binding")
		}
		v.RegisterTagNameFunc(fieldName)

		locale := en.New()
		uni := ut.New(locale, locale)
		translator, _ = uni.GetTranslator("en")
		if err := entranslations.RegisterDefaultTranslations(v, translator); err != nil {
			panic("validation: register translations: " + err.Error())
		}

		engine = v
	})
}

// fieldName reports fields by their JSON name, falling back to the form tag
// for query structs.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Engine returns the validator used by gin binding.
func Engine() *validator.Validate {
	setup()
	return engine
}

// Translator returns the English translator registered with Engine.
func Translator() ut.Translator {
	setup()
	return translator
}

// Struct validates obj against its binding tags.
func Struct(obj interface{}) error {
	return Engine().Struct(obj)
}

// Messages converts validation errors into a field -> message map keyed by
// the field's JSON path relative to the validated struct.
func Messages(errs validator.ValidationErrors) map[string]interface{} {
	trans := Translator()
	out := make(map[string]interface{}, len(errs))
	for _, fe := range errs {
		out[fieldPath(fe)] = fe.Translate(trans)
	}
	return out
}

// FieldErrors extracts per-field messages from err, or nil if err is not a
// validation failure.
func FieldErrors(err error) map[string]interface{} {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return Messages(verrs)
	}
	return nil
}

// fieldPath strips the root struct name from the namespace:
// "CustomerInput.appointment.date" becomes "appointment.date".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
