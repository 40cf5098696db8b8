package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/shop_api/internal/events"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add")

	ok, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("product %d: %w", productID, ErrValidation)
	}

	item := &models.CartItem{UserID: userID, ProductID: productID}
	if err := s.Repo.AddCartItem(ctx, item); err != nil {
		return nil, err
	}

	publish(ctx, l, s.Events, events.TopicCart, idKey(userID), events.Event{
		Type:      events.CartItemAdded,
		UserID:    userID,
		ProductID: productID,
	})
	return item, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	l := logging.FromContext(ctx).With("svc", "cart.remove")

	if _, err := s.Repo.RemoveOneCartItem(ctx, userID, productID); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("cart item for product %d: %w", productID, ErrNotFound)
		}
		return err
	}

	publish(ctx, l, s.Events, events.TopicCart, idKey(userID), events.Event{
		Type:      events.CartItemRemoved,
		UserID:    userID,
		ProductID: productID,
	})
	return nil
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]models.CartLine, error) {
	return s.Repo.CartItemsFor(ctx, userID)
}

// Checkout returns the cart total and the number of charged items, and
// empties the cart.
func (s *CartService) Checkout(ctx context.Context, userID uint) (float64, int, error) {
	l := logging.FromContext(ctx).With("svc", "cart.checkout")

	lines, total, err := s.Repo.Checkout(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	publish(ctx, l, s.Events, events.TopicCart, idKey(userID), events.Event{
		Type:   events.CartCheckedOut,
		UserID: userID,
		Items:  len(lines),
		Total:  total,
	})
	return total, len(lines), nil
}
