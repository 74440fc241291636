package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NumberFormatter renders numbers for the user's locale.
type NumberFormatter interface {
	Int(n int) string
	Percent(p int) string
}

type messageFormatter struct {
	printer *message.Printer
}

func NewNumberFormatter(tag language.Tag) NumberFormatter {
	return &messageFormatter{printer: message.NewPrinter(tag)}
}

// NewNumberFormatterFor parses a BCP 47 tag, falling back to English.
func NewNumberFormatterFor(lang string) NumberFormatter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return NewNumberFormatter(tag)
}

func (f *messageFormatter) Int(n int) string {
	return f.printer.Sprintf("%d", n)
}

func (f *messageFormatter) Percent(p int) string {
	return f.printer.Sprintf("%d%%", p)
}
