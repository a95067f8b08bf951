package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"declutterai/internal/domain"
)

// PlanChanger applies a verified plan change to a user account. Webhook
// events are the only path that triggers it from this package.
type PlanChanger interface {
	ApplyPlanChange(ctx context.Context, userID string, plan domain.Plan) (*domain.UserAccount, error)
}

type Options struct {
	SecretKey     string
	WebhookSecret string
	PriceBasic    string
	PricePro      string
	SuccessURL    string
	CancelURL     string
}

type Service struct {
	opts          Options
	plans         PlanChanger
	logger        zerolog.Logger
	newSession    func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	verifyPayload func(payload []byte, signature string) (stripe.Event, error)
}

var (
	ErrNotConfigured = errors.New("billing: stripe is not configured")
	// ErrInvalidEvent marks webhook payloads that can never succeed, so the
	// caller should acknowledge them with a client error instead of asking
	// Stripe to retry.
	ErrInvalidEvent = errors.New("billing: invalid webhook event")
)

const userMetadataKey = "clerk_user_id"

func NewService(opts Options, plans PlanChanger, logger zerolog.Logger) *Service {
	if opts.SecretKey != "" {
		stripe.Key = opts.SecretKey
	}
	svc := &Service{
		opts:       opts,
		plans:      plans,
		logger:     logger.With().Str("component", "billing").Logger(),
		newSession: session.New,
	}
	svc.verifyPayload = func(payload []byte, signature string) (stripe.Event, error) {
		return webhook.ConstructEvent(payload, signature, opts.WebhookSecret)
	}
	return svc
}

func (s *Service) Enabled() bool {
	return s.opts.SecretKey != "" && s.opts.WebhookSecret != ""
}

// CreateCheckoutSession opens a subscription checkout for a paid plan and
// returns the hosted payment URL. The user and target plan travel in session
// metadata so the completion webhook can apply the change without trusting
// the client.
func (s *Service) CreateCheckoutSession(_ context.Context, userID string, plan domain.Plan) (string, error) {
	if !s.Enabled() {
		return "", ErrNotConfigured
	}
	priceID, err := s.priceFor(plan)
	if err != nil {
		return "", err
	}
	metadata := map[string]string{
		userMetadataKey: userID,
		"plan":          string(plan),
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(s.opts.SuccessURL),
		CancelURL:         stripe.String(s.opts.CancelURL),
		ClientReferenceID: stripe.String(userID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		Metadata: metadata,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	sess, err := s.newSession(params)
	if err != nil {
		return "", fmt.Errorf("billing: create checkout session: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Str("plan", string(plan)).Str("session_id", sess.ID).Msg("checkout session created")
	return sess.URL, nil
}

// HandleEvent verifies a webhook payload and applies the plan transition it
// describes. Unrecognized event types are acknowledged without action so
// Stripe does not retry them.
func (s *Service) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	event, err := s.verifyPayload(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: signature verification: %v", ErrInvalidEvent, err)
	}
	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, event)
	case "invoice.payment_failed":
		s.logger.Warn().Str("event_id", event.ID).Msg("invoice payment failed")
		return nil
	default:
		s.logger.Debug().Str("event_type", string(event.Type)).Msg("ignoring webhook event")
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("%w: decode checkout session: %v", ErrInvalidEvent, err)
	}
	userID := sess.ClientReferenceID
	if userID == "" {
		userID = sess.Metadata[userMetadataKey]
	}
	if userID == "" {
		return fmt.Errorf("%w: checkout session has no user reference", ErrInvalidEvent)
	}
	plan := domain.Plan(sess.Metadata["plan"])
	if !domain.ValidPlan(plan) || plan == domain.PlanFree {
		return fmt.Errorf("%w: checkout session carries plan %q", ErrInvalidEvent, sess.Metadata["plan"])
	}
	account, err := s.plans.ApplyPlanChange(ctx, userID, plan)
	if err != nil {
		return fmt.Errorf("billing: apply upgrade: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Str("plan", string(account.Plan)).Msg("subscription activated")
	return nil
}

func (s *Service) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("%w: decode subscription: %v", ErrInvalidEvent, err)
	}
	userID := sub.Metadata[userMetadataKey]
	if userID == "" {
		return fmt.Errorf("%w: subscription has no user reference", ErrInvalidEvent)
	}
	account, err := s.plans.ApplyPlanChange(ctx, userID, domain.PlanFree)
	if err != nil {
		return fmt.Errorf("billing: apply downgrade: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Str("plan", string(account.Plan)).Msg("subscription canceled")
	return nil
}

func (s *Service) priceFor(plan domain.Plan) (string, error) {
	switch plan {
	case domain.PlanBasic:
		if strings.TrimSpace(s.opts.PriceBasic) == "" {
			return "", ErrNotConfigured
		}
		return s.opts.PriceBasic, nil
	case domain.PlanPro:
		if strings.TrimSpace(s.opts.PricePro) == "" {
			return "", ErrNotConfigured
		}
		return s.opts.PricePro, nil
	default:
		return "", fmt.Errorf("%w: %q is not purchasable", domain.ErrInvalidPlan, plan)
	}
}
