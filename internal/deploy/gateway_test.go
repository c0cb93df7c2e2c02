package deploy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molenker/internal/validation"
)

const ownerWallet = "0x742d35Cc6634C0532925a3b844Bc9e7595f2bD12"

func TestRewardSplit(t *testing.T) {
	split := NewRewardSplit("")
	assert.Equal(t, DefaultPlatformWallet, split.PlatformWallet)

	owner, platform := split.Shares()
	assert.Equal(t, "90%", owner)
	assert.Equal(t, "10%", platform)

	recipients := split.Recipients(ownerWallet)
	require.Len(t, recipients, 2)
	assert.Equal(t, ownerWallet, recipients[0].Recipient)
	assert.Equal(t, 9000, recipients[0].Bps)
	assert.Equal(t, DefaultPlatformWallet, recipients[1].Recipient)
	assert.Equal(t, 1000, recipients[1].Bps)
	for _, r := range recipients {
		assert.Equal(t, DefaultPlatformWallet, r.Admin)
		assert.Equal(t, "Both", r.Token)
	}
}

func TestTwitterURL(t *testing.T) {
	assert.Equal(t, "https://twitter.com/lobsterking", TwitterURL("@lobsterking"))
	assert.Equal(t, "https://twitter.com/lobsterking", TwitterURL("lobsterking"))
	assert.Equal(t, "", TwitterURL(""))
}

func TestHTTPGateway_Deploy(t *testing.T) {
	var payload deployPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"txHash":       "0xtx",
			"tokenAddress": "0xtoken",
		})
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL, NewRewardSplit(""), WithBearerToken("secret"), WithTimeout(5*time.Second))
	res, err := gw.Deploy(context.Background(), Request{
		Name:          "LobsterKing",
		Symbol:        "LOBK",
		Image:         "https://i.imgur.com/abc.png",
		Description:   "king",
		OwnerWallet:   ownerWallet,
		CorrelationID: "post-1",
		Source:        "moltx",
		Website:       "https://lobster.example",
		Twitter:       "@lobsterking",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "0xtx", res.TxHash)
	assert.Equal(t, "0xtoken", res.TokenAddress)
	assert.False(t, res.Simulated)

	assert.Equal(t, DefaultPlatformWallet, payload.TokenAdmin)
	assert.Equal(t, deployContext{Interface: "Molenker", Platform: "moltx", MessageID: "post-1", ID: ownerWallet}, payload.Context)
	assert.Equal(t, []socialURL{
		{Platform: "website", URL: "https://lobster.example"},
		{Platform: "twitter", URL: "https://twitter.com/lobsterking"},
	}, payload.Metadata.SocialMediaURLs)
	require.Len(t, payload.Rewards.Recipients, 2)
}

func TestHTTPGateway_Rejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":{"message":"insufficient funds"}}`))
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL, NewRewardSplit(""))
	res, err := gw.Deploy(context.Background(), Request{Name: "X"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "400")
	assert.Contains(t, res.Error, "insufficient funds")
}

func TestHTTPGateway_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	gw := NewHTTPGateway(server.URL, NewRewardSplit(""))
	_, err := gw.Deploy(ctx, Request{Name: "X"})
	assert.Error(t, err)
}

func TestSimulator_Deploy(t *testing.T) {
	sim := NewSimulator()
	res, err := sim.Deploy(context.Background(), Request{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Simulated)
	assert.True(t, validation.IsValidWallet(res.TokenAddress))
	assert.Len(t, res.TxHash, 66)

	other, err := sim.Deploy(context.Background(), Request{})
	require.NoError(t, err)
	assert.NotEqual(t, res.TokenAddress, other.TokenAddress)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Deploy(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "", errorText(nil))
	assert.Equal(t, "", errorText(json.RawMessage("null")))
	assert.Equal(t, "boom", errorText(json.RawMessage(`"boom"`)))
	assert.Equal(t, "bad", errorText(json.RawMessage(`{"message":"bad"}`)))
	assert.Equal(t, `{"code":1}`, errorText(json.RawMessage(`{"code":1}`)))
}
