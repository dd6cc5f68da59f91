package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cryptopulse/internal/domain/sentiment"
)

func TestAttributeRedditComment(t *testing.T) {
	btc := sentiment.Asset{Symbol: "BTC", Name: "Bitcoin"}
	eth := sentiment.Asset{Symbol: "ETH", Name: "Ethereum"}
	tracked := []sentiment.Asset{btc, eth}

	tests := []struct {
		name       string
		text       string
		searched   sentiment.Asset
		tracked    []sentiment.Asset
		wantSymbol string
		wantConf   float64
	}{
		{"other asset mentioned", "ethereum looks better here", btc, tracked, "ETH", 1.0},
		{"searched asset mentioned", "Bitcoin dominance rising", btc, tracked, "BTC", 1.0},
		{"first tracked match wins", "eth and btc both", eth, tracked, "BTC", 1.0},
		{"nothing mentioned", "great thread, thanks", btc, tracked, "BTC", 0.5},
		{"searched not tracked but named", "my bitcoin stack", btc, []sentiment.Asset{eth}, "BTC", 0.0},
		{"substring match", "wrapped wbtc again", eth, tracked, "BTC", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			symbol, conf := AttributeRedditComment(tt.text, tt.searched, tt.tracked)
			assert.Equal(t, tt.wantSymbol, symbol)
			assert.Equal(t, tt.wantConf, conf)
		})
	}
}

func TestAttributeRedditComment_EmptyNameNeverMatches(t *testing.T) {
	symbol, conf := AttributeRedditComment("anything at all", sentiment.Asset{Symbol: "XYZ"}, []sentiment.Asset{{Symbol: "", Name: ""}})
	assert.Equal(t, "XYZ", symbol)
	assert.Equal(t, 0.5, conf)
}
