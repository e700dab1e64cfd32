package config

import (
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
)

var natsSchemes = map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}

// Validate checks the server section.
func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required),
		validation.Field(&s.RunsPerMinute, validation.Min(0)),
	)
}

// Validate checks the notify section. Subject is required once a URL is set.
func (n NotifyConfig) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.NATSURL, validation.By(natsURL)),
		validation.Field(&n.Subject, validation.When(n.NATSURL != "", validation.Required)),
	)
}

func natsURL(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || !natsSchemes[u.Scheme] {
		return validation.NewError("notify.nats_url.invalid", "must be a nats://, tls://, ws:// or wss:// URL")
	}
	return nil
}

// validateSection converts an ozzo validation failure into a config error.
func validateSection(name string, v validation.Validatable) error {
	if err := v.Validate(); err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid "+name+" configuration").
			WithContext("section", name).
			Build()
	}
	return nil
}
