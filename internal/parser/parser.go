// Package parser extracts launch requests from free-form social-media post text.
//
// Two formats are accepted after the trigger token: a fenced block holding a
// JSON object, or "key: value" / "key = value" lines. Field names are resolved
// through an alias table before validation and normalization.
package parser

import (
	"strings"
	"unicode/utf8"

	"molenker/internal/domain"
	"molenker/internal/validation"
)

// DefaultTrigger marks a post as a launch request.
const DefaultTrigger = "!molenker"

// Truncation bounds applied during normalization.
const (
	MaxNameLen        = 50
	MaxSymbolLen      = 10
	MaxDescriptionLen = 500
)

// Parser turns post text into validated launch data.
type Parser struct {
	trigger string
	images  validation.ImageRules
}

// Option configures Parser.
type Option func(*Parser)

// WithTrigger overrides the trigger token.
func WithTrigger(trigger string) Option {
	return func(p *Parser) {
		if trigger != "" {
			p.trigger = trigger
		}
	}
}

// WithImageRules overrides the image URL acceptance rules.
func WithImageRules(rules validation.ImageRules) Option {
	return func(p *Parser) {
		p.images = rules
	}
}

// New creates a Parser with the default trigger and image rules.
func New(opts ...Option) *Parser {
	p := &Parser{
		trigger: DefaultTrigger,
		images:  validation.DefaultImageRules(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Trigger returns the configured trigger token.
func (p *Parser) Trigger() string {
	return p.trigger
}

// Parse extracts launch data from text. It returns nil when the trigger is
// absent, a required field is missing, or wallet/image validation fails.
// Use Errors to learn why.
func (p *Parser) Parse(text string) *domain.ParsedLaunchData {
	if !strings.Contains(text, p.trigger) {
		return nil
	}

	fields, ok := extractJSONBlock(text)
	if !ok {
		fields = extractLines(text)
	}

	return p.validateAndNormalize(resolveAliases(fields))
}

func (p *Parser) validateAndNormalize(f map[string]string) *domain.ParsedLaunchData {
	for _, name := range requiredFields {
		if f[name] == "" {
			return nil
		}
	}

	if !validation.IsValidWallet(f[fieldWallet]) {
		return nil
	}
	if !p.images.IsValidImageURL(f[fieldImage]) {
		return nil
	}

	return &domain.ParsedLaunchData{
		Name:        truncate(f[fieldName], MaxNameLen),
		Symbol:      truncate(strings.ToUpper(f[fieldSymbol]), MaxSymbolLen),
		Wallet:      f[fieldWallet],
		Description: truncate(f[fieldDescription], MaxDescriptionLen),
		Image:       f[fieldImage],
		Website:     f[fieldWebsite],
		Twitter:     f[fieldTwitter],
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
