package validation

import "testing"

func TestIsValidWallet(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"mixed case", "0x742d35Cc6634C0532925a3b844Bc9e7595f2bD12", true},
		{"lower case", "0x742d35cc6634c0532925a3b844bc9e7595f2bd12", true},
		{"upper case hex", "0x742D35CC6634C0532925A3B844BC9E7595F2BD12", true},
		{"missing prefix", "742d35Cc6634C0532925a3b844Bc9e7595f2bD12", false},
		{"too short", "0x742d35Cc6634C0532925a3b844Bc9e7595f2bD1", false},
		{"too long", "0x742d35Cc6634C0532925a3b844Bc9e7595f2bD123", false},
		{"non hex", "0x742d35Cc6634C0532925a3b844Bc9e7595f2bDzz", false},
		{"uppercase prefix", "0X742d35Cc6634C0532925a3b844Bc9e7595f2bD12", false},
		{"garbage", "not-a-wallet", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidWallet(tt.input); got != tt.want {
				t.Errorf("IsValidWallet(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestImageRules_IsValidImageURL(t *testing.T) {
	rules := DefaultImageRules()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"known host", "https://i.imgur.com/abc", true},
		{"known host subdomain", "https://gateway.ipfs.io/ipfs/Qm123", true},
		{"arweave", "https://arweave.net/tx123", true},
		{"extension png", "https://example.com/logo.png", true},
		{"extension upper case", "https://example.com/LOGO.JPEG", true},
		{"extension with query", "https://example.com/logo.webp?size=2", true},
		{"ipfs scheme", "ipfs://QmHash", true},
		{"unknown host no extension", "https://example.com/page", false},
		{"extension only in query", "https://example.com/page?f=x.png", false},
		{"relative path", "/images/logo.png", false},
		{"not a url", "lobster", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.IsValidImageURL(tt.input); got != tt.want {
				t.Errorf("IsValidImageURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestImageRules_Custom(t *testing.T) {
	rules := ImageRules{Hosts: []string{"cdn.example.org"}}

	if !rules.IsValidImageURL("https://cdn.example.org/a") {
		t.Error("expected configured host to be accepted")
	}
	if rules.IsValidImageURL("https://i.imgur.com/a") {
		t.Error("default hosts should not apply to custom rules")
	}
}
