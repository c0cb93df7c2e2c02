package parser

import (
	"fmt"
	"strings"

	"molenker/internal/validation"
)

// Errors explains why text would not be accepted, for user-facing responses.
// It only re-runs line extraction; Parse alone decides acceptance.
func (p *Parser) Errors(text string) []string {
	var errs []string

	if !strings.Contains(text, p.trigger) {
		return append(errs, fmt.Sprintf("Missing %s trigger", p.trigger))
	}

	fields := extractLines(text)

	for _, name := range requiredFields {
		if _, ok := firstAlias(fields, aliasesFor(name)); !ok {
			errs = append(errs, "Missing required field: "+name)
		}
	}

	if wallet, ok := firstAlias(fields, aliasesFor(fieldWallet)); ok && !validation.IsValidWallet(wallet) {
		errs = append(errs, "Invalid wallet address (must be 0x + 40 hex characters)")
	}

	if image, ok := firstAlias(fields, aliasesFor(fieldImage)); ok && !p.images.IsValidImageURL(image) {
		errs = append(errs, "Invalid image URL (must be direct link to image file)")
	}

	return errs
}
