package service

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/sakif/assignment-hub/internal/apperror"
)

// custom validation tags
const (
	notBlankTag   = "notblank"
	githubRepoTag = "github_repo"
)

// githubHosts are the hosts a submission link may point at, lower-cased.
var githubHosts = map[string]bool{
	"github.com":     true,
	"www.github.com": true,
}

// structValidator wraps a configured *validator.Validate and the English
// translator used to render its errors.
type structValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var validate = mustStructValidator()

// mustStructValidator panics if any tag, translation or message fails to
// register.
func mustStructValidator() *structValidator {
	sv, err := newStructValidator()
	if err != nil {
		panic(err)
	}
	return sv
}

func newStructValidator() (*structValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("service/validate: english translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(v, translator); err != nil {
		return nil, fmt.Errorf("service/validate: registering default translations: %w", err)
	}

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(notBlankTag, notBlankValidation); err != nil {
		return nil, fmt.Errorf("service/validate: registering %s: %w", notBlankTag, err)
	}
	if err := v.RegisterValidation(githubRepoTag, githubRepoValidation); err != nil {
		return nil, fmt.Errorf("service/validate: registering %s: %w", githubRepoTag, err)
	}

	sv := &structValidator{validate: v, translator: translator}
	if err := sv.registerMessages(); err != nil {
		return nil, err
	}
	return sv, nil
}

// registerMessages overrides the default English text for tags whose
// wording clients display verbatim.
func (sv *structValidator) registerMessages() error {
	messages := map[string]string{
		notBlankTag:   "{0} is required",
		"required":    "{0} is required",
		"http_url":    "{0} must be a valid http(s) URL",
		githubRepoTag: "{0} must be a GitHub repository link (https://github.com/...)",
	}
	for tag, text := range messages {
		tag, text := tag, text
		err := sv.validate.RegisterTranslation(tag, sv.translator,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, err := t.T(tag, fe.Field())
				if err != nil {
					return fe.Error()
				}
				return msg
			},
		)
		if err != nil {
			return fmt.Errorf("service/validate: registering message for %s: %w", tag, err)
		}
	}
	return nil
}

// Struct validates s and converts the first failure into an apperror
// validation error naming the offending JSON field.
func (sv *structValidator) Struct(s any) error {
	err := sv.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.ValidationFailed(fe.Field(), fe.Translate(sv.translator))
	}
	return apperror.ValidationFailed("", err.Error())
}

// Custom Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func githubRepoValidation(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	return ok && IsGitHubURL(str)
}

// IsGitHubURL reports whether raw is an absolute http(s) URL on github.com or
// www.github.com. Host matching is case-insensitive; any path is accepted.
func IsGitHubURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return false
	}
	return githubHosts[strings.ToLower(u.Hostname())]
}
