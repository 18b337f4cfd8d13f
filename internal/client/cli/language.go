package cli

import (
	"context"
	"fmt"

	"incognitify/portal/internal/i18n"
)

func (a *App) language(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "%s: %s\n", a.t(ctx, i18n.AuthLanguageLabel), a.languageName(ctx, a.lang))
		return nil
	}
	lang, ok := i18n.ParseLanguage(args[0])
	if !ok {
		fmt.Fprintf(a.out, "unsupported language %q (use en or pt)\n", args[0])
		return errUsage
	}
	a.SetLanguage(ctx, lang)
	fmt.Fprintf(a.out, "%s: %s\n", a.t(ctx, i18n.AuthLanguageLabel), a.languageName(ctx, lang))
	return nil
}

// SetLanguage switches the interface language. The choice is stored locally
// and, for a signed-in user, pushed to the server in the background.
func (a *App) SetLanguage(ctx context.Context, lang i18n.Language) {
	a.prefs.SetLanguage(ctx, lang)
	a.lang = lang
}

func (a *App) languageName(ctx context.Context, lang i18n.Language) string {
	if lang == i18n.Portuguese {
		return a.t(ctx, i18n.AuthLanguagePortuguese)
	}
	return a.t(ctx, i18n.AuthLanguageEnglish)
}

func (a *App) translate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "usage: t <namespace> <key>")
		return errUsage
	}
	ns, ok := i18n.ParseNamespace(args[0])
	if !ok {
		fmt.Fprintf(a.out, "unknown namespace %q\n", args[0])
		return errUsage
	}
	fmt.Fprintln(a.out, a.catalog.Lookup(ctx, a.lang, ns, args[1]).String())
	return nil
}
