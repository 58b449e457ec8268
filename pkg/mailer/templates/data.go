package templates

import "time"

type Option func(*EmailData)

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		d.ExpiresAtText = t.UTC().Format("02 January 2006, 15:04 MST")
	}
}

func WithToken(token string) Option { return func(d *EmailData) { d.Token = token } }

func newData(appName, typ, name, email, actionURL string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email, AppName: appName, Type: typ, ActionURL: actionURL}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewResetPasswordData(appName, name, email, resetURL string, opts ...Option) EmailData {
	return newData(appName, ResetPassword, name, email, resetURL, opts...)
}

func NewConfirmEmailData(appName, name, email, confirmURL string, opts ...Option) EmailData {
	return newData(appName, ConfirmEmail, name, email, confirmURL, opts...)
}
