package binance

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	// Reference vector from the Binance API documentation.
	query := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"
	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"

	assert.Equal(t, "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71", Sign(query, secret))
}

func TestSignedQuery(t *testing.T) {
	params := url.Values{}
	params.Set("timestamp", "1700000000000")
	params.Set("symbol", "BTCUSDT")
	params.Set("side", "BUY")

	got := SignedQuery(params, "secret")

	query := "side=BUY&symbol=BTCUSDT&timestamp=1700000000000"
	assert.Equal(t, query+"&signature="+Sign(query, "secret"), got)
	assert.Equal(t, got, SignedQuery(params, "secret"))
}
