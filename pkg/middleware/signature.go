package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"buffet/pkg/logger"
)

const SchedulerSignatureHeader = "Calendly-Webhook-Signature"

// SchedulerSignature verifies "t=<unix>,v1=<hex hmac>" over "<t>.<body>".
// An empty secret disables verification.
func SchedulerSignature(secret string, maxSkew time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "Unable to read request body")
				return
			}
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			if err := VerifySchedulerSignature(secret, r.Header.Get(SchedulerSignatureHeader), body, time.Now(), maxSkew); err != nil {
				log.Warn("Invalid webhook signature",
					"request_id", RequestIDFromContext(r.Context()),
					"error", err,
				)
				writeJSONError(w, http.StatusUnauthorized, "Invalid signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type signatureError string

func (e signatureError) Error() string { return string(e) }

const (
	errSignatureMissing   = signatureError("signature header missing")
	errSignatureMalformed = signatureError("signature header malformed")
	errSignatureStale     = signatureError("signature timestamp outside tolerance")
	errSignatureMismatch  = signatureError("signature mismatch")
)

func VerifySchedulerSignature(secret, header string, body []byte, now time.Time, maxSkew time.Duration) error {
	if header == "" {
		return errSignatureMissing
	}

	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return errSignatureMalformed
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return errSignatureMalformed
	}
	skew := now.Sub(time.Unix(unix, 0))
	if skew < 0 {
		skew = -skew
	}
	if maxSkew > 0 && skew > maxSkew {
		return errSignatureStale
	}

	expected, err := hex.DecodeString(sig)
	if err != nil {
		return errSignatureMalformed
	}
	if !hmac.Equal(expected, signPayload(secret, ts, body)) {
		return errSignatureMismatch
	}
	return nil
}

// SignSchedulerPayload builds a header value for body at t.
func SignSchedulerPayload(secret string, body []byte, t time.Time) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	return "t=" + ts + ",v1=" + hex.EncodeToString(signPayload(secret, ts, body))
}

func signPayload(secret, ts string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}
