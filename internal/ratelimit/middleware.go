package ratelimit

import (
	"bytes"
	"encoding/json"
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// maxKeyLength caps storage key size; longer composites are hashed.
const maxKeyLength = 64

// emailPeekLimit caps how much of the body is buffered to extract the
// email key. Auth initiation bodies are small JSON documents.
const emailPeekLimit = 4 << 10

// KeyFunc extracts a rate limit key from the request.
type KeyFunc func(r *http.Request) string

// ByIP keys on the client address, honoring X-Forwarded-For from a
// trusted proxy.
func ByIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		if ip = strings.TrimSpace(ip); ip != "" {
			return "ip:" + ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

// ByJSONEmail keys on the email field of a JSON request body so one
// address cannot be hammered from many sources. The consumed bytes are
// stitched back onto the body so downstream handlers see it intact.
func ByJSONEmail(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}

	peeked, err := io.ReadAll(io.LimitReader(r.Body, emailPeekLimit))
	r.Body = replayBody{
		Reader: io.MultiReader(bytes.NewReader(peeked), r.Body),
		Closer: r.Body,
	}
	if err != nil {
		return ""
	}

	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(peeked, &body) != nil {
		return ""
	}
	if email := strings.ToLower(strings.TrimSpace(body.Email)); email != "" {
		return "email:" + email
	}
	return ""
}

// replayBody re-attaches buffered bytes in front of the original body
// while keeping its Close method.
type replayBody struct {
	io.Reader
	io.Closer
}

// Composite combines multiple key functions into one.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		if len(parts) == 1 && len(parts[0]) <= maxKeyLength {
			return parts[0]
		}

		combined := strings.Join(parts, ":")
		if len(combined) > maxKeyLength {
			h := fnv.New64a()
			h.Write([]byte(combined))
			return strconv.FormatUint(h.Sum64(), 36)
		}
		return combined
	}
}

// Middleware creates an HTTP middleware for rate limiting. Requests fail
// open when the store is unavailable; losing throttling briefly beats
// taking the endpoint down with it.
func Middleware(b *Bucket, keyFunc KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := b.Allow(r.Context(), key)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if retryAfter := int(result.RetryAfter().Seconds()); retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
