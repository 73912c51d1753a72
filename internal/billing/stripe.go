package billing

import (
	"fmt"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/MedVetSolutions/vet-scheduler/internal/config"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

// StripeService creates checkout sessions for plan purchases. When no
// secret key is configured the constructor returns nil and the billing
// endpoints report billing as disabled.
type StripeService struct {
	sc         *client.API
	successURL string
	cancelURL  string
}

func NewStripeFromConfig(cfg *config.Config) *StripeService {
	if cfg.StripeSecretKey == "" {
		return nil
	}

	sc := &client.API{}
	sc.Init(cfg.StripeSecretKey, nil)

	return &StripeService{
		sc:         sc,
		successURL: cfg.StripeSuccessURL,
		cancelURL:  cfg.StripeCancelURL,
	}
}

// CreateCheckoutSession returns a hosted checkout URL for the plan,
// billed monthly or yearly.
func (s *StripeService) CreateCheckoutSession(
	clinicID uint,
	plan *models.SubscriptionPlan,
	yearly bool,
) (string, error) {

	price := plan.Price
	interval := "month"
	if yearly {
		if plan.YearlyPrice == nil {
			return "", httperr.ErrBusiness("yearly_billing_unavailable")
		}
		price = *plan.YearlyPrice
		interval = "year"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(
			fmt.Sprintf("clinic:%d:plan:%d", clinicID, plan.ID),
		),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(int64(price * 100)),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(interval),
					},
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(plan.Name),
					},
				},
			},
		},
	}

	sess, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.URL, nil
}
