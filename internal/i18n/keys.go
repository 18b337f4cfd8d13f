package i18n

// Key names one translatable string: the namespace it lives in and its dotted path.
type Key struct {
	Namespace Namespace
	Path      string
}

func (k Key) String() string {
	return string(k.Namespace) + ":" + k.Path
}

var (
	AuthLoginTitle         = Key{NamespaceAuth, "login.title"}
	AuthLoginSubtitle      = Key{NamespaceAuth, "login.subtitle"}
	AuthLoginSubmit        = Key{NamespaceAuth, "login.submit"}
	AuthLoginFailed        = Key{NamespaceAuth, "login.failed"}
	AuthEmailLabel         = Key{NamespaceAuth, "fields.email"}
	AuthPasswordLabel      = Key{NamespaceAuth, "fields.password"}
	AuthLoggedOut          = Key{NamespaceAuth, "logout.done"}
	AuthLanguageLabel      = Key{NamespaceAuth, "languageSelector.label"}
	AuthLanguageEnglish    = Key{NamespaceAuth, "languageSelector.english"}
	AuthLanguagePortuguese = Key{NamespaceAuth, "languageSelector.portuguese"}

	RegisterTitle          = Key{NamespaceRegister, "title"}
	RegisterDisplayName    = Key{NamespaceRegister, "fields.displayName"}
	RegisterConfirm        = Key{NamespaceRegister, "fields.confirmPassword"}
	RegisterAccountCreated = Key{NamespaceRegister, "success.accountCreated"}
	RegisterFailed         = Key{NamespaceRegister, "errors.failed"}

	VerifyEmailTitle        = Key{NamespaceVerifyEmail, "title"}
	VerifyEmailDescription  = Key{NamespaceVerifyEmail, "description"}
	VerifyEmailInstructions = Key{NamespaceVerifyEmail, "instructions"}
	VerifyEmailResend       = Key{NamespaceVerifyEmail, "buttons.resend"}
	VerifyEmailSending      = Key{NamespaceVerifyEmail, "buttons.sending"}
	VerifyEmailSent         = Key{NamespaceVerifyEmail, "success.emailSent"}
	VerifyEmailSendFailed   = Key{NamespaceVerifyEmail, "errors.sendFailed"}
	VerifyEmailPageSuccess  = Key{NamespaceVerifyEmail, "page.success"}
	VerifyEmailPageError    = Key{NamespaceVerifyEmail, "page.error"}
	VerifyEmailPageLoading  = Key{NamespaceVerifyEmail, "page.loading"}

	RequestResetTitle = Key{NamespaceRequestPasswordReset, "page.title"}
	RequestResetSent  = Key{NamespaceRequestPasswordReset, "page.success"}
	RequestResetError = Key{NamespaceRequestPasswordReset, "page.error"}

	DashboardLoading = Key{NamespaceDashboard, "loading"}
	DashboardTitle   = Key{NamespaceDashboard, "title"}
	DashboardWelcome = Key{NamespaceDashboard, "welcome"}
	DashboardLogout  = Key{NamespaceDashboard, "logout"}
)
