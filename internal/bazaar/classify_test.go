package bazaar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  InboundMessage
		want Classification
	}{
		{
			name: "media present is always an add",
			msg:  InboundMessage{Text: "Nice shoes for ₵150", PhotoDataURI: "data:image/jpeg;base64,xxx"},
			want: Classification{Kind: AddProduct},
		},
		{
			name: "media wins even over an ID marker in the text",
			msg:  InboundMessage{Text: "(ID: prod_001)", PhotoDataURI: "data:image/jpeg;base64,xxx"},
			want: Classification{Kind: AddProduct},
		},
		{
			name: "ID marker makes a product query",
			msg:  InboundMessage{Text: "Is this (ID: prod_002) available?"},
			want: Classification{Kind: ProductQuery, ProductID: "prod_002"},
		},
		{
			name: "only the first marker counts",
			msg:  InboundMessage{Text: "(ID: first) or maybe (ID: second)"},
			want: Classification{Kind: ProductQuery, ProductID: "first"},
		},
		{
			name: "plain text is generic",
			msg:  InboundMessage{Text: "Do you deliver to Kumasi?"},
			want: Classification{Kind: GenericMessage},
		},
		{
			name: "empty message is generic",
			msg:  InboundMessage{},
			want: Classification{Kind: GenericMessage},
		},
		{
			name: "malformed marker is generic",
			msg:  InboundMessage{Text: "ID: prod_003"},
			want: Classification{Kind: GenericMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.msg))
		})
	}
}
