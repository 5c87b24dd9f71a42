package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

func signedHeaders(t *testing.T, secret string, body []byte, at time.Time) http.Header {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(secret[len("whsec_"):])
	require.NoError(t, err)

	id := "msg_2f9a7c"
	timestamp := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.%s", id, timestamp, body)
	signature := "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))

	headers := http.Header{}
	headers.Set(HeaderID, id)
	headers.Set(HeaderTimestamp, timestamp)
	headers.Set(HeaderSignature, signature)
	return headers
}

func TestNewVerifierRejectsBadSecret(t *testing.T) {
	_, err := NewVerifier("")
	require.Error(t, err)

	_, err = NewVerifier("whsec_")
	require.Error(t, err)

	_, err = NewVerifier("whsec_!!not-base64!!")
	require.Error(t, err)
}

func TestVerifyAcceptsValidDelivery(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	body := []byte(`{"type":"user.created","data":{"id":"user_2abc"}}`)
	event, err := v.Verify(body, signedHeaders(t, testSecret, body, time.Now()))
	require.NoError(t, err)
	require.Equal(t, EventUserCreated, event.Type)
	require.Equal(t, "user_2abc", event.Data.ID)
}

func TestVerifyRequiresAllHeaders(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	body := []byte(`{"type":"user.created","data":{"id":"user_2abc"}}`)
	for _, missing := range []string{HeaderID, HeaderTimestamp, HeaderSignature} {
		headers := signedHeaders(t, testSecret, body, time.Now())
		headers.Del(missing)
		_, err := v.Verify(body, headers)
		require.ErrorIs(t, err, ErrMissingHeaders, "header %s", missing)
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	body := []byte(`{"type":"user.created","data":{"id":"user_2abc"}}`)
	headers := signedHeaders(t, testSecret, body, time.Now())

	tampered := []byte(`{"type":"user.deleted","data":{"id":"user_2abc"}}`)
	_, err = v.Verify(tampered, headers)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	other := "whsec_VGhpcyBpcyBub3QgdGhlIHJpZ2h0IGtleS4u"
	body := []byte(`{"type":"user.created","data":{"id":"user_2abc"}}`)
	_, err = v.Verify(body, signedHeaders(t, other, body, time.Now()))
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	body := []byte(`{"type":"user.created","data":{"id":"user_2abc"}}`)
	headers := signedHeaders(t, testSecret, body, time.Now().Add(-time.Hour))
	_, err = v.Verify(body, headers)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyAcceptsAnyValidCandidate(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	body := []byte(`{"type":"user.created","data":{"id":"user_2abc"}}`)
	headers := signedHeaders(t, testSecret, body, time.Now())
	headers.Set(HeaderSignature, "v1,Zm9yZ2VkCg== "+headers.Get(HeaderSignature))

	_, err = v.Verify(body, headers)
	require.NoError(t, err)
}

func TestVerifyRejectsMalformedJSON(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	body := []byte(`{"type":`)
	_, err = v.Verify(body, signedHeaders(t, testSecret, body, time.Now()))
	require.ErrorIs(t, err, ErrMalformedPayload)
}
