package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
)

// GatewayIntent mirrors the processor-side view of a payment.
type GatewayIntent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
}

// Gateway abstracts the card/wallet processor. Implementations must
// return stable intent ids; the service stores them and uses them as the
// confirmation handle.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*GatewayIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*GatewayIntent, error)
	RefundIntent(ctx context.Context, id string) error
}

// OfflineGateway is an in-process processor used when no external gateway
// is configured. Intents succeed as soon as they are retrieved, which
// keeps the full confirm flow exercisable in development.
type OfflineGateway struct {
	mu      sync.Mutex
	intents map[string]*GatewayIntent
}

func NewOfflineGateway() *OfflineGateway {
	return &OfflineGateway{intents: make(map[string]*GatewayIntent)}
}

func (g *OfflineGateway) CreateIntent(_ context.Context, amount int64, currency string, _ map[string]string) (*GatewayIntent, error) {
	token, err := randomToken(12)
	if err != nil {
		return nil, fmt.Errorf("generating intent id: %w", err)
	}

	secret, err := randomToken(16)
	if err != nil {
		return nil, fmt.Errorf("generating client secret: %w", err)
	}

	intent := &GatewayIntent{
		ID:           "pi_" + token,
		ClientSecret: "pi_" + token + "_secret_" + secret,
		Amount:       amount,
		Currency:     currency,
		Status:       "succeeded",
	}

	g.mu.Lock()
	g.intents[intent.ID] = intent
	g.mu.Unlock()

	return intent, nil
}

func (g *OfflineGateway) RetrieveIntent(_ context.Context, id string) (*GatewayIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("intent %s not found", id)
	}

	return intent, nil
}

func (g *OfflineGateway) RefundIntent(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		return fmt.Errorf("intent %s not found", id)
	}

	intent.Status = "refunded"

	return nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// receiptNumber builds a short human-readable receipt reference, e.g.
// CASH-9F2C41AB.
func receiptNumber(prefix string) (string, error) {
	token, err := randomToken(4)
	if err != nil {
		return "", fmt.Errorf("generating receipt number: %w", err)
	}

	return prefix + "-" + strings.ToUpper(token), nil
}
