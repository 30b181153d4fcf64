package payments

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type SnapConfig struct {
	ServerKey string
	// Production toggles the midtrans environment.
	Production bool
	// ClientURL is where the customer lands after finishing payment.
	ClientURL string
}

// SnapGateway collects payments through midtrans Snap.
type SnapGateway struct {
	client snap.Client
	cfg    SnapConfig
}

func NewSnapGateway(cfg SnapConfig) *SnapGateway {
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}

	g := &SnapGateway{cfg: cfg}
	g.client.New(cfg.ServerKey, env)
	return g
}

func (g *SnapGateway) CreateTransaction(ctx context.Context, req TransactionRequest) (*Handle, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderId,
			GrossAmt: req.GrossAmount,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/invoices?payment=success", g.cfg.ClientURL),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := g.client.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("snap transaction for order %s: %s", req.OrderId, midErr.GetMessage())
	}

	return &Handle{Token: snapResp.Token, RedirectUrl: snapResp.RedirectURL}, nil
}
