package parser

import "errors"

var errInvalidJSON = errors.New("invalid json object")

// Canonical field names.
const (
	fieldName        = "name"
	fieldSymbol      = "symbol"
	fieldWallet      = "wallet"
	fieldDescription = "description"
	fieldImage       = "image"
	fieldWebsite     = "website"
	fieldTwitter     = "twitter"
)

var requiredFields = []string{fieldName, fieldSymbol, fieldWallet, fieldDescription, fieldImage}

// fieldAliases lists accepted source keys per canonical field, in priority order.
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{fieldName, []string{"name", "token", "token_name"}},
	{fieldSymbol, []string{"symbol", "ticker"}},
	{fieldWallet, []string{"wallet", "address", "recipient"}},
	{fieldDescription, []string{"description", "desc", "about", "bio"}},
	{fieldImage, []string{"image", "img", "logo", "icon"}},
	{fieldWebsite, []string{"website", "site", "url", "link", "homepage"}},
	{fieldTwitter, []string{"twitter", "x", "social"}},
}

// resolveAliases maps extracted keys onto canonical fields. The first
// non-empty alias wins.
func resolveAliases(extracted map[string]string) map[string]string {
	out := make(map[string]string, len(fieldAliases))
	for _, fa := range fieldAliases {
		if v, ok := firstAlias(extracted, fa.aliases); ok {
			out[fa.field] = v
		}
	}
	return out
}

func firstAlias(extracted map[string]string, aliases []string) (string, bool) {
	for _, a := range aliases {
		if v := extracted[a]; v != "" {
			return v, true
		}
	}
	return "", false
}

func aliasesFor(field string) []string {
	for _, fa := range fieldAliases {
		if fa.field == field {
			return fa.aliases
		}
	}
	return nil
}
