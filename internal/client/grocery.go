package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/model"
)

// GroceryCollection adds the shopping actions to the grocery list: buying
// an item, toggling it, and moving it into the fridge.
type GroceryCollection struct {
	*Collection[model.GroceryItem, model.GroceryDraft, model.GroceryPatch]

	purchases *Feed[model.PurchaseRecord]
	fridge    *Collection[model.FridgeItem, model.FridgeDraft, model.FridgePatch]
}

type completeResponse struct {
	Item     model.GroceryItem    `json:"item"`
	Purchase model.PurchaseRecord `json:"purchase"`
}

// Complete marks the cached item bought. The server records the purchase
// in the same transaction; the new record is put at the head of the
// purchase feed.
func (g *GroceryCollection) Complete(ctx context.Context, id int64) (model.PurchaseRecord, error) {
	item, ok := g.cache.find(id)
	if !ok {
		return model.PurchaseRecord{}, g.fail("complete", fmt.Errorf("%w: id %d", ErrNotCached, id))
	}
	if item.Completed {
		return model.PurchaseRecord{}, g.fail("complete", fmt.Errorf("%w: %s", ErrAlreadyCompleted, item.ItemName))
	}

	var resp completeResponse
	err := g.api.do(ctx, http.MethodPost, g.itemPath(id)+"/complete", false, nil, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			err = fmt.Errorf("%w: %w", ErrAlreadyCompleted, err)
		}
		return model.PurchaseRecord{}, g.fail("complete", err)
	}

	g.cache.replace(resp.Item)
	g.purchases.cache.prepend(resp.Purchase)
	return resp.Purchase, nil
}

// SetCompleted flips the flag without recording a purchase.
func (g *GroceryCollection) SetCompleted(ctx context.Context, id int64, completed bool) (model.GroceryItem, error) {
	var updated model.GroceryItem
	body := map[string]bool{"completed": completed}
	if err := g.api.do(ctx, http.MethodPut, g.itemPath(id)+"/completed", false, body, &updated); err != nil {
		return updated, g.fail("set completed", err)
	}
	g.cache.replace(updated)
	return updated, nil
}

// MoveToFridge stores the grocery item in the fridge and adds the new
// fridge item to the fridge collection.
func (g *GroceryCollection) MoveToFridge(ctx context.Context, id int64, location string, expiry civil.Date) (model.FridgeItem, error) {
	var created model.FridgeItem
	m := model.MoveToFridge{Location: location, ExpiryDate: expiry}
	if err := m.Validate(); err != nil {
		return created, g.fail("move to fridge", err)
	}
	if err := g.api.do(ctx, http.MethodPost, g.itemPath(id)+"/move-to-fridge", false, m, &created); err != nil {
		return created, g.fail("move to fridge", err)
	}
	g.fridge.cache.prepend(created)
	return created, nil
}
