package bazaar

import "regexp"

// Kind is the handling path chosen for an inbound message.
type Kind int

const (
	// AddProduct — the message carries a photo, the sender is a seller
	// listing a product.
	AddProduct Kind = iota
	// ProductQuery — a buyer question that round-trips a product ID marker.
	ProductQuery
	// GenericMessage — anything else.
	GenericMessage
)

// Classification is the outcome of Classify. ProductID is set only for
// ProductQuery.
type Classification struct {
	Kind      Kind
	ProductID string
}

// productIDPattern matches the marker a storefront deep link embeds in the
// buyer's prefilled message, e.g. "(ID: prod_002)".
var productIDPattern = regexp.MustCompile(`\(ID: (.*?)\)`)

// Classify picks the handling path for an inbound message. Media presence
// always wins: a seller's product photo is never misclassified as a buyer
// question even when the caption happens to contain an ID marker. Only the
// first marker occurrence counts.
func Classify(msg *InboundMessage) Classification {
	if msg.PhotoDataURI != "" {
		return Classification{Kind: AddProduct}
	}
	if m := productIDPattern.FindStringSubmatch(msg.Text); m != nil {
		return Classification{Kind: ProductQuery, ProductID: m[1]}
	}
	return Classification{Kind: GenericMessage}
}
