package session

import (
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// DisplayName extracts a display name from an identity token without
// verifying its signature. The result is untrusted and only shown to the
// user.
func DisplayName(token string) (string, error) {
	payload, err := idtoken.ParsePayload(strings.TrimSpace(token))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenDecode, err)
	}
	for _, claim := range []string{"name", "email"} {
		if v, ok := payload.Claims[claim].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}
	return "", nil
}
