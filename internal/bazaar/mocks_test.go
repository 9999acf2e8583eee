package bazaar

import (
	"context"
	"errors"

	"github.com/bazaar-labs/bazaarbot/internal/ai"
)

// mockRepo implements Repo for testing.
type mockRepo struct {
	Products map[string]Product
	AddErr   error
	Added    []NewProduct
}

func (m *mockRepo) ListBySeller(_ context.Context, sellerID string) []Product {
	var out []Product
	for _, p := range m.Products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out
}

func (m *mockRepo) GetByID(_ context.Context, id string) *Product {
	if p, ok := m.Products[id]; ok {
		return &p
	}
	return nil
}

func (m *mockRepo) Add(_ context.Context, p NewProduct) (*Product, error) {
	if m.AddErr != nil {
		return nil, m.AddErr
	}
	m.Added = append(m.Added, p)
	return &Product{
		ID:          "new-id",
		SellerID:    p.SellerID,
		Image:       p.Image,
		Price:       p.Price,
		Description: p.Description,
	}, nil
}

// mockExtractor implements ai.Extractor.
type mockExtractor struct {
	Details *ai.ProductDetails
	Err     error
	Calls   int
}

func (m *mockExtractor) Extract(_ context.Context, _, _ string) (*ai.ProductDetails, error) {
	m.Calls++
	return m.Details, m.Err
}

// mockReplier implements ai.Replier, capturing the product context it saw.
type mockReplier struct {
	Out     string
	Err     error
	Context *ai.ProductContext
	Calls   int
}

func (m *mockReplier) Reply(_ context.Context, _ string, product *ai.ProductContext) (string, error) {
	m.Calls++
	m.Context = product
	return m.Out, m.Err
}

// mockOutbound captures sends.
type mockOutbound struct {
	SendErr error
	Sent    []sentMessage
}

type sentMessage struct {
	To   string
	Body string
}

func (m *mockOutbound) SendMessage(_ context.Context, to, body string) error {
	m.Sent = append(m.Sent, sentMessage{To: to, Body: body})
	return m.SendErr
}

// mockMedia implements MediaFetcher.
type mockMedia struct {
	DataURI string
	Err     error
}

func (m *mockMedia) FetchMedia(_ context.Context, _ string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.DataURI, nil
}

var errStoreDown = errors.New("store down")
