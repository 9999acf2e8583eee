package bazaar

import (
	"context"
	"time"
)

// Product is a single catalog entry. Products are immutable after creation:
// there is no update or delete anywhere in the system.
type Product struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"sellerId"`
	Image       string    `json:"image"`
	Price       string    `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewProduct is the caller-supplied part of a Product; ID and CreatedAt are
// assigned by the repository.
type NewProduct struct {
	SellerID    string
	Image       string
	Price       string
	Description string
}

// Repo — persistence. The read methods fail open: on any storage error they
// log and return empty/nil, so a public storefront degrades to an empty shop
// instead of an error page. Add fails closed — silently dropping a seller's
// product is not acceptable — so it alone returns an error.
type Repo interface {
	ListBySeller(ctx context.Context, sellerID string) []Product
	GetByID(ctx context.Context, id string) *Product
	Add(ctx context.Context, p NewProduct) (*Product, error)
}

// Outbound sends a WhatsApp message to a user.
type Outbound interface {
	SendMessage(ctx context.Context, to string, body string) error
}

// MediaFetcher resolves a provider media URL into a data URI.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, url string) (string, error)
}

// InboundMessage is one webhook delivery, already decoded from either the
// form-encoded provider callback or the JSON tester body.
type InboundMessage struct {
	SellerID     string
	Text         string
	PhotoDataURI string
}

// Result is what a flow produced for one inbound message; the JSON endpoint
// echoes it back to the caller.
type Result struct {
	ConfirmationMessage string   `json:"confirmationMessage,omitempty"`
	AddedProduct        *Product `json:"addedProduct,omitempty"`
	Reply               string   `json:"reply,omitempty"`
}

// Service — orchestration.
type Service interface {
	// Dispatch classifies the message, runs the matching flow and sends the
	// outcome to the sender. On error nothing has been sent yet; the caller
	// owns the failsafe apology.
	Dispatch(ctx context.Context, msg *InboundMessage) (*Result, error)

	// HandleProviderCallback is the form-encoded webhook path: media fetch,
	// dispatch, and conversion of every failure into a user-facing apology.
	// It never reports an error, the provider always gets its ack.
	HandleProviderCallback(ctx context.Context, from, body, mediaURL string, numMedia int)
}
