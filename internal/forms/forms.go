// Package forms holds the request bodies shared by the web server and the
// terminal client, with their field rules.
package forms

import (
	"fmt"
	"strings"
)

type Login struct {
	Email    string `json:"email" form:"email" validate:"email"`
	Password string `json:"password" form:"password" validate:"min=6"`
}

// Signup is what a person types; Registration is what goes over the wire.
type Signup struct {
	DisplayName     string `json:"displayName" validate:"min=2"`
	Email           string `json:"email" validate:"email"`
	Password        string `json:"password" validate:"min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (s Signup) Registration(language string) Registration {
	return Registration{
		DisplayName: strings.TrimSpace(s.DisplayName),
		Email:       strings.TrimSpace(s.Email),
		Password:    s.Password,
		Language:    language,
	}
}

type Registration struct {
	DisplayName   string `json:"displayName" validate:"min=2"`
	Email         string `json:"email" validate:"email"`
	Password      string `json:"password" validate:"min=8"`
	WorkspaceName string `json:"workspaceName,omitempty"`
	Language      string `json:"language,omitempty"`
}

// Workspace is the explicit workspace name or "<displayName>'s Workspace".
func (r Registration) Workspace() string {
	if r.WorkspaceName != "" {
		return r.WorkspaceName
	}
	return fmt.Sprintf("%s's Workspace", r.DisplayName)
}

type PasswordReset struct {
	Email    string `json:"email" validate:"required"`
	Language string `json:"language,omitempty"`
}

type ForgotPassword struct {
	Email string `json:"email" validate:"email"`
}

type Preferences struct {
	UserID      string `json:"userId" validate:"required"`
	Preferences struct {
		Language string `json:"language" validate:"oneof=en pt"`
	} `json:"preferences"`
}

type AttachPaymentMethod struct {
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
}

// LanguageOr returns lang, or fallback when lang is empty.
func LanguageOr(lang, fallback string) string {
	if lang == "" {
		return fallback
	}
	return lang
}
