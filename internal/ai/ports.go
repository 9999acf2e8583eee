package ai

import "context"

// ProductDetails is what the extractor recovers from a seller's photo and
// caption. Price keeps its currency symbol as free text; nothing downstream
// parses it.
type ProductDetails struct {
	Price       string `json:"price"`
	Description string `json:"description"`
}

// ProductContext carries the product a buyer is asking about into the
// auto-reply prompt.
type ProductContext struct {
	Name  string
	Price string
}

// Extractor turns a seller message plus product photo into structured
// details. A (nil, nil) return is the could-not-extract signal: the model
// answered but produced nothing usable, and the caller should ask the seller
// to try again rather than persist anything.
type Extractor interface {
	Extract(ctx context.Context, message, photoDataURI string) (*ProductDetails, error)
}

// Replier answers a buyer message, optionally with product context. An empty
// reply with a nil error means the provider produced no output; the caller
// substitutes its fixed fallback.
type Replier interface {
	Reply(ctx context.Context, message string, product *ProductContext) (string, error)
}
