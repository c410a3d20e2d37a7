// Package signing implements the two HMAC-SHA256 request signing
// conventions used by the external integrations: the carrier's
// newline-joined message scheme and the payment gateway's sorted
// query-string scheme. The two must never be cross-applied; a signature
// produced under one scheme will not verify under the other.
package signing

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// NowMillis returns the current time as a millisecond epoch string, the
// timestamp format the carrier expects in signed requests. Signatures are
// never reused: every request gets a fresh timestamp and recomputes.
func NowMillis() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// SignMessage computes the carrier scheme signature:
//
//	ts + "\r\n" + METHOD + "\r\n" + path + "\r\n\r\n" + trim(body)
//
// hashed with HMAC-SHA256 and hex-encoded lowercase. A nil body signs as
// the empty string; leaving it out of the message changes the signature.
func SignMessage(secret, method, path string, body []byte, timestamp string) string {
	message := timestamp + "\r\n" +
		strings.ToUpper(method) + "\r\n" +
		path + "\r\n\r\n" +
		string(bytes.TrimSpace(body))

	return hmacHex(secret, []byte(message))
}

// SignQuery computes the payment gateway scheme signature: parameters
// sorted by key, encoded as an RFC 3986 query string, hashed with
// HMAC-SHA256 and hex-encoded lowercase.
//
// RFC 3986 (space as %20) is the project-wide canonicalization; the
// verifier and signer must agree on it or every signature check fails.
func SignQuery(secret string, params map[string]string) string {
	return hmacHex(secret, []byte(CanonicalQuery(params)))
}

// CanonicalQuery builds the sorted RFC 3986 query string SignQuery hashes.
func CanonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(k))
		b.WriteByte('=')
		b.WriteString(escape(params[k]))
	}

	return b.String()
}

// escape is url.QueryEscape with the RFC 1738 space encoding corrected to
// RFC 3986.
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// SignRaw computes an HMAC-SHA256 over the raw payload bytes, the
// convention the payment gateway uses for webhook bodies and checkout
// session requests.
func SignRaw(secret string, body []byte) string {
	return hmacHex(secret, body)
}

// Verify compares a received hex signature against the expected one in
// constant time. Any mismatch fails closed.
func Verify(expected, received string) bool {
	return hmac.Equal([]byte(expected), []byte(received))
}

func hmacHex(secret string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
