package serializers

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const tagBookmarkURL = "bookmarkurl"

// hostnameRegex в соответствии с `RFC 1123` за исключением - исключает корневые доменные имена (без зоны).
var hostnameRegex = regexp.MustCompile(`^([a-zA-Z0-9](-?[a-zA-Z0-9])*\.)+([a-zA-Z0-9](-?[a-zA-Z0-9])*)$`)

var allowedSchemes = map[string]struct{}{ //nolint:gochecknoglobals
	"http":  {},
	"https": {},
	"ftp":   {},
	"ftps":  {},
}

var (
	validate     *validator.Validate //nolint:gochecknoglobals
	validateOnce sync.Once           //nolint:gochecknoglobals
)

// getValidator возвращает валидатор с именами полей из json тегов и проверкой bookmarkurl.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation(tagBookmarkURL, func(fl validator.FieldLevel) bool {
			return ValidateURL(fl.Field().String()) == nil
		}); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// ValidateURL проверяет, является ли строка корректным абсолютным URL со схемой http, https, ftp или ftps.
func ValidateURL(rawURL string) error {
	if rawURL == "" || strings.ContainsAny(rawURL, " \t\r\n") {
		return errors.New("invalid URL format")
	}
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}

	if _, ok := allowedSchemes[strings.ToLower(parsedURL.Scheme)]; !ok {
		return fmt.Errorf("URL scheme %q is not allowed", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return errors.New("URL must have a host")
	}

	if port := parsedURL.Port(); port != "" {
		if n, convErr := strconv.Atoi(port); convErr != nil || n < 1 || n > 65535 {
			return fmt.Errorf("invalid port %q", port)
		}
	}

	host := parsedURL.Hostname()
	if host == "localhost" || net.ParseIP(host) != nil {
		return nil
	}
	if !hostnameRegex.MatchString(host) {
		return errors.New("invalid hostname")
	}
	return nil
}

// translate превращает ошибки validator в сообщения для клиента.
func translate(errs validator.ValidationErrors, into *ValidationError) {
	for _, fe := range errs {
		into.add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "min":
		if fe.Kind() == reflect.String {
			return MsgBlank
		}
		return fmt.Sprintf(MsgMinValue, paramInt(fe))
	case "gte":
		return fmt.Sprintf(MsgMinValue, paramInt(fe))
	case "max":
		return fmt.Sprintf(MsgMaxLength, paramInt(fe))
	case tagBookmarkURL:
		return MsgInvalidURL
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

func paramInt(fe validator.FieldError) int {
	n, _ := strconv.Atoi(fe.Param())
	return n
}
