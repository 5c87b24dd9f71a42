package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Transport headers carried on every svix-signed delivery.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

const secretPrefix = "whsec_"

// DefaultTolerance bounds how far a delivery timestamp may drift from the
// local clock before the signature is rejected as stale.
const DefaultTolerance = 5 * time.Minute

var (
	ErrMissingHeaders   = errors.New("missing svix headers")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Verifier checks svix signatures on inbound webhook deliveries. The scheme
// is HMAC-SHA256 over "{id}.{timestamp}.{body}" with the base64-decoded
// portion of the whsec_ secret as the key.
type Verifier struct {
	key       []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier builds a Verifier from the shared signing secret as issued by
// the provider dashboard ("whsec_" followed by a base64 key).
func NewVerifier(secret string) (*Verifier, error) {
	raw := strings.TrimPrefix(secret, secretPrefix)
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("webhook secret is empty")
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode webhook secret: %w", err)
	}
	return &Verifier{key: key, tolerance: DefaultTolerance, now: time.Now}, nil
}

// Verify validates the three transport headers and the signature over the
// raw body, then decodes the envelope. It runs strictly before any business
// logic and has no side effects.
func (v *Verifier) Verify(body []byte, headers http.Header) (*Event, error) {
	id := headers.Get(HeaderID)
	timestamp := headers.Get(HeaderTimestamp)
	signatures := headers.Get(HeaderSignature)
	if id == "" || timestamp == "" || signatures == "" {
		return nil, ErrMissingHeaders
	}

	if err := v.checkTimestamp(timestamp); err != nil {
		return nil, err
	}

	expected := v.sign(id, timestamp, body)
	if !matchSignature(expected, signatures) {
		return nil, ErrInvalidSignature
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &event, nil
}

func (v *Verifier) sign(id, timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(id))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

func (v *Verifier) checkTimestamp(value string) error {
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}
	sent := time.Unix(seconds, 0)
	drift := v.now().Sub(sent)
	if drift > v.tolerance || drift < -v.tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}
	return nil
}

// matchSignature compares the expected MAC against each space-separated
// candidate in the signature header. Candidates carry a version prefix
// ("v1,<base64>"); only v1 is supported. Comparison is constant time.
func matchSignature(expected []byte, header string) bool {
	for _, candidate := range strings.Fields(header) {
		version, encoded, found := strings.Cut(candidate, ",")
		if !found || version != "v1" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, decoded) {
			return true
		}
	}
	return false
}
