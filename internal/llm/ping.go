package llm

import (
	"context"
	"time"
)

// Ping sends a minimal request to verify that the provider is reachable
// and the credentials work. The call is logged under PurposeConnectivity.
func Ping(ctx context.Context, p Provider) (time.Duration, error) {
	ctx = WithPurpose(ctx, PurposeConnectivity)
	start := time.Now()
	_, err := p.Generate(ctx, Request{
		Messages:  []Message{{Role: RoleUser, Content: "Reply with the single word: pong"}},
		MaxTokens: 16,
	})
	if err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
