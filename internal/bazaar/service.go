package bazaar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bazaar-labs/bazaarbot/internal/ai"
)

// User-facing texts. These are fixed strings, not templates the model fills
// in: whatever goes wrong internally, the sender sees exactly one of these
// or a flow answer.
const (
	MsgMediaApology = "Sorry, I had trouble processing the image. Please try sending it again."

	MsgCouldNotExtract = "Sorry, I couldn't quite understand the product details. " +
		"Please try again with a clear photo and a message that includes the price."

	MsgProductNotFound = "Sorry, I couldn't find that product. It might no longer be available."

	MsgFailsafe = "I'm sorry, but something went wrong on our end and I couldn't " +
		"process your request. Please try again in a moment."

	MsgReplyFallback = "I'm not sure about that one. The seller will get back to you shortly."
)

type service struct {
	repo      Repo
	extractor ai.Extractor
	replier   ai.Replier
	outbound  Outbound
	media     MediaFetcher
	baseURL   string
	log       *zap.Logger
}

// NewService wires the dispatcher. baseURL is the public origin used to build
// the store link in seller confirmations.
func NewService(
	repo Repo,
	extractor ai.Extractor,
	replier ai.Replier,
	outbound Outbound,
	media MediaFetcher,
	baseURL string,
	log *zap.Logger,
) Service {
	return &service{
		repo:      repo,
		extractor: extractor,
		replier:   replier,
		outbound:  outbound,
		media:     media,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log,
	}
}

// Dispatch runs exactly one flow for the message and sends its outcome to the
// sender. The outbound send fires at most once per inbound message; error
// returns mean nothing was sent.
func (s *service) Dispatch(ctx context.Context, msg *InboundMessage) (*Result, error) {
	c := Classify(msg)

	var (
		res *Result
		err error
	)
	switch c.Kind {
	case AddProduct:
		res, err = s.addProduct(ctx, msg)
	case ProductQuery:
		res, err = s.answerProductQuery(ctx, msg, c.ProductID)
	default:
		res, err = s.answerGeneric(ctx, msg)
	}
	if err != nil {
		return nil, err
	}

	s.send(ctx, msg.SellerID, res.text())
	return res, nil
}

// HandleProviderCallback is the Twilio webhook path. Every failure collapses
// into a fixed apology to the sender; the caller acks the provider no matter
// what happened here.
func (s *service) HandleProviderCallback(ctx context.Context, from, body, mediaURL string, numMedia int) {
	senderID := strings.TrimPrefix(from, "whatsapp:")

	msg := &InboundMessage{SellerID: senderID, Text: body}

	if mediaURL != "" && numMedia > 0 {
		dataURI, err := s.media.FetchMedia(ctx, mediaURL)
		if err != nil {
			s.log.Error("media fetch failed",
				zap.String("sender", from),
				zap.String("mediaUrl", mediaURL),
				zap.Error(err),
			)
			s.send(ctx, senderID, MsgMediaApology)
			return
		}
		msg.PhotoDataURI = dataURI
	}

	if _, err := s.Dispatch(ctx, msg); err != nil {
		s.log.Error("webhook dispatch failed",
			zap.String("sender", from),
			zap.String("body", body),
			zap.Time("timestamp", time.Now()),
			zap.Error(err),
		)
		s.send(ctx, senderID, MsgFailsafe)
	}
}

func (s *service) addProduct(ctx context.Context, msg *InboundMessage) (*Result, error) {
	details, err := s.extractor.Extract(ctx, msg.Text, msg.PhotoDataURI)
	if err != nil {
		return nil, fmt.Errorf("product extraction: %w", err)
	}
	if details == nil || details.Price == "" || details.Description == "" {
		// Could-not-extract: ask for clarification, nothing is persisted.
		return &Result{ConfirmationMessage: MsgCouldNotExtract}, nil
	}

	added, err := s.repo.Add(ctx, NewProduct{
		SellerID:    msg.SellerID,
		Image:       msg.PhotoDataURI,
		Price:       details.Price,
		Description: details.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("persist product: %w", err)
	}

	storeURL := s.baseURL + "/" + added.SellerID
	return &Result{
		ConfirmationMessage: fmt.Sprintf(
			"Great! I've added %q to your store for %s. You can view your updated store here: %s",
			added.Description, added.Price, storeURL,
		),
		AddedProduct: added,
	}, nil
}

func (s *service) answerProductQuery(ctx context.Context, msg *InboundMessage, productID string) (*Result, error) {
	product := s.repo.GetByID(ctx, productID)
	if product == nil {
		s.log.Warn("product not found", zap.String("productId", productID))
		return &Result{Reply: MsgProductNotFound}, nil
	}

	reply, err := s.replier.Reply(ctx, msg.Text, &ai.ProductContext{
		Name:  product.Description,
		Price: product.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("auto-reply: %w", err)
	}
	return &Result{Reply: orFallback(reply)}, nil
}

func (s *service) answerGeneric(ctx context.Context, msg *InboundMessage) (*Result, error) {
	reply, err := s.replier.Reply(ctx, msg.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("auto-reply: %w", err)
	}
	return &Result{Reply: orFallback(reply)}, nil
}

// send is the single outbound primitive. Send failures are logged and
// swallowed so they can never break the provider acknowledgment.
func (s *service) send(ctx context.Context, sellerID, text string) {
	if err := s.outbound.SendMessage(ctx, "whatsapp:"+sellerID, text); err != nil {
		s.log.Error("outbound send failed",
			zap.String("to", sellerID),
			zap.Error(err),
		)
	}
}

func (r *Result) text() string {
	if r.ConfirmationMessage != "" {
		return r.ConfirmationMessage
	}
	return r.Reply
}

func orFallback(reply string) string {
	if strings.TrimSpace(reply) == "" {
		return MsgReplyFallback
	}
	return reply
}
