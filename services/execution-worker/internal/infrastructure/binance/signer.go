package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// Sign returns the hex HMAC-SHA256 of query under secret.
func Sign(query, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedQuery encodes params in key order and appends the signature.
// Encoding is deterministic, so the signed bytes are exactly the bytes sent.
func SignedQuery(params url.Values, secret string) string {
	query := params.Encode()
	return query + "&signature=" + Sign(query, secret)
}
