// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate formats operator-visible text for the SSBC tools
// using the locale of the host.
package translate

import (
	"io"
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// DEFAULT_LOCALE is used when the host reports no locale.
const DEFAULT_LOCALE = "en-US"

var printer *message.Printer

func init() {
	printer = NewPrinter(hostLocales()...)
}

// hostLocales returns the preferred locales of the host, best first.
func hostLocales() (locales []string) {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("ssbc: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}

	return
}

// NewPrinter creates a printer for the best match of locales.
func NewPrinter(locales ...string) *message.Printer {
	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}
	return message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Fprintf translates an en-US Fprintf() format to w.
func Fprintf(w io.Writer, key message.Reference, args ...any) (n int, err error) {
	return printer.Fprintf(w, key, args...)
}
