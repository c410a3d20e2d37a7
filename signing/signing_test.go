package signing

import (
	"strings"
	"testing"
)

const testSecret = "sk_test_0123456789abcdef"

func TestSignMessageDeterministic(t *testing.T) {
	body := []byte(`{"data":{"serviceType":"MOTORCYCLE"}}`)

	first := SignMessage(testSecret, "POST", "/v3/quotations", body, "1700000000000")
	second := SignMessage(testSecret, "POST", "/v3/quotations", body, "1700000000000")

	if first != second {
		t.Fatalf("same inputs produced different signatures: %s vs %s", first, second)
	}

	if len(first) != 64 || first != strings.ToLower(first) {
		t.Fatalf("expected lowercase hex sha256, got %q", first)
	}
}

func TestSignMessageVerifyRoundtrip(t *testing.T) {
	body := []byte(`{"data":{"quotationId":"q-123"}}`)
	sig := SignMessage(testSecret, "post", "/v3/orders", body, "1700000000000")

	if !Verify(SignMessage(testSecret, "POST", "/v3/orders", body, "1700000000000"), sig) {
		t.Fatal("signature did not verify against its own inputs")
	}
}

func TestSignMessageSingleByteMutationFlips(t *testing.T) {
	body := []byte(`{"data":{"quotationId":"q-123"}}`)
	sig := SignMessage(testSecret, "POST", "/v3/orders", body, "1700000000000")

	mutated := append([]byte(nil), body...)
	mutated[10] ^= 1
	if Verify(SignMessage(testSecret, "POST", "/v3/orders", mutated, "1700000000000"), sig) {
		t.Fatal("body mutation still verified")
	}

	if Verify(SignMessage(testSecret, "POST", "/v3/orders", body, "1700000000001"), sig) {
		t.Fatal("timestamp mutation still verified")
	}
}

func TestSignMessageEmptyBody(t *testing.T) {
	nilBody := SignMessage(testSecret, "GET", "/v3/orders/ord-1", nil, "1700000000000")
	emptyBody := SignMessage(testSecret, "GET", "/v3/orders/ord-1", []byte(""), "1700000000000")

	if nilBody != emptyBody {
		t.Fatal("nil body must sign identically to empty body")
	}

	withBody := SignMessage(testSecret, "GET", "/v3/orders/ord-1", []byte("x"), "1700000000000")
	if withBody == nilBody {
		t.Fatal("body must participate in the signature")
	}
}

func TestSignMessageTrimsBody(t *testing.T) {
	plain := SignMessage(testSecret, "POST", "/v3/orders", []byte(`{"a":1}`), "1700000000000")
	padded := SignMessage(testSecret, "POST", "/v3/orders", []byte("  {\"a\":1}\n"), "1700000000000")

	if plain != padded {
		t.Fatal("surrounding whitespace must not change the signature")
	}
}

func TestCanonicalQuerySortsAndEncodes(t *testing.T) {
	got := CanonicalQuery(map[string]string{
		"zeta":   "last value",
		"alpha":  "first",
		"middle": "a/b&c=d",
	})

	want := "alpha=first&middle=a%2Fb%26c%3Dd&zeta=last%20value"
	if got != want {
		t.Fatalf("canonical query mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestSignQueryDeterministicUnderMapOrder(t *testing.T) {
	params := map[string]string{"b": "2", "a": "1", "c": "3"}

	first := SignQuery(testSecret, params)
	for i := 0; i < 16; i++ {
		if SignQuery(testSecret, params) != first {
			t.Fatal("query signature depends on map iteration order")
		}
	}
}

func TestSchemesNeverCrossApply(t *testing.T) {
	params := map[string]string{"order_id": "ORDER1", "status": "paid"}
	querySig := SignQuery(testSecret, params)

	// Verifying a query-scheme signature with the message construction
	// over the same logical content must fail.
	messageSig := SignMessage(testSecret, "POST", "/callback", []byte(CanonicalQuery(params)), "1700000000000")
	if Verify(messageSig, querySig) {
		t.Fatal("message scheme verified a query-scheme signature")
	}

	rawSig := SignRaw(testSecret, []byte(CanonicalQuery(params)))
	if Verify(rawSig, querySig) {
		t.Fatal("raw scheme verified a query-scheme signature")
	}
}

func TestVerifyRejectsMismatch(t *testing.T) {
	sig := SignRaw(testSecret, []byte("payload"))

	if !Verify(sig, sig) {
		t.Fatal("identical signatures must verify")
	}

	altered := "0" + sig[1:]
	if sig[0] == '0' {
		altered = "1" + sig[1:]
	}
	if Verify(sig, altered) {
		t.Fatal("altered signature must not verify")
	}

	if Verify(sig, "") {
		t.Fatal("empty signature must not verify")
	}
}

func TestSignRawDiffersAcrossSecrets(t *testing.T) {
	body := []byte(`{"order_id":"ORDER1"}`)

	if SignRaw(testSecret, body) == SignRaw("other-secret", body) {
		t.Fatal("different secrets produced the same signature")
	}
}
