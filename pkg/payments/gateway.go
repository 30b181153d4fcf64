package payments

import "context"

// TransactionRequest is what the portal needs collected for one invoice.
type TransactionRequest struct {
	OrderId       string
	GrossAmount   int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// Handle is the client-facing payment reference returned by the provider.
type Handle struct {
	Token       string
	RedirectUrl string
}

// Gateway abstracts the payment collaborator. An invoice with a positive
// amount is never persisted without a Handle from it.
type Gateway interface {
	CreateTransaction(ctx context.Context, req TransactionRequest) (*Handle, error)
}
