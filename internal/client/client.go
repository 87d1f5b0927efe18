package client

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/smartfood/internal/model"
	hub "github.com/dukerupert/smartfood/internal/websocket"
)

// Config holds client configuration.
type Config struct {
	BaseURL string
	// Token is the bearer token for shopping lists. It may be set later
	// with Login or SetToken.
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
	// Notify, if set, is called with every failed operation.
	Notify Notifier
}

type (
	FridgeCollection       = Collection[model.FridgeItem, model.FridgeDraft, model.FridgePatch]
	DishCollection         = Collection[model.Dish, model.DishDraft, model.DishPatch]
	MealPlanCollection     = Collection[model.MealPlan, model.MealPlanDraft, model.MealPlanPatch]
	FamilyMemberCollection = Collection[model.FamilyMember, model.FamilyMemberDraft, model.FamilyMemberPatch]
	ShoppingListCollection = Collection[model.ShoppingList, model.ShoppingListDraft, model.ShoppingListPatch]
)

// Client owns one cached collection per entity.
type Client struct {
	api    *api
	logger *slog.Logger
	notify Notifier

	Groceries     *GroceryCollection
	Fridge        *FridgeCollection
	Dishes        *DishCollection
	MealPlans     *MealPlanCollection
	FamilyMembers *FamilyMemberCollection
	Purchases     *Feed[model.PurchaseRecord]
	ShoppingLists *ShoppingListCollection
}

func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Client{
		api:    &api{baseURL: cfg.BaseURL, httpClient: cfg.HTTPClient, token: cfg.Token},
		logger: cfg.Logger.With("component", "client"),
		notify: cfg.Notify,
	}

	c.Fridge = newCollection[model.FridgeItem, model.FridgeDraft, model.FridgePatch](c, "fridge items", "/api/fridge-items", collectionOpts{})
	c.Dishes = newCollection[model.Dish, model.DishDraft, model.DishPatch](c, "dishes", "/api/dishes", collectionOpts{})
	c.MealPlans = newCollection[model.MealPlan, model.MealPlanDraft, model.MealPlanPatch](c, "meal plans", "/api/meal-plans", collectionOpts{appendOnAdd: true})
	c.FamilyMembers = newCollection[model.FamilyMember, model.FamilyMemberDraft, model.FamilyMemberPatch](c, "family members", "/api/family-members", collectionOpts{})
	c.Purchases = newFeed[model.PurchaseRecord](c, "purchase history", "/api/purchase-history")
	c.ShoppingLists = newCollection[model.ShoppingList, model.ShoppingListDraft, model.ShoppingListPatch](c, "shopping lists", "/api/shopping-lists", collectionOpts{
		updateMethod: http.MethodPut,
		authed:       true,
	})
	c.Groceries = &GroceryCollection{
		Collection: newCollection[model.GroceryItem, model.GroceryDraft, model.GroceryPatch](c, "grocery items", "/api/grocery-items", collectionOpts{}),
		purchases:  c.Purchases,
		fridge:     c.Fridge,
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.api.setToken(token)
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login exchanges credentials for a token and keeps it for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	return c.authenticate(ctx, "/api/auth/login", model.Credentials{Email: email, Password: password})
}

func (c *Client) Register(ctx context.Context, creds model.Credentials) (*model.User, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, "/api/auth/register", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds model.Credentials) (*model.User, error) {
	var resp tokenResponse
	if err := c.api.do(ctx, http.MethodPost, path, false, creds, &resp); err != nil {
		c.logger.Error("authentication failed", "path", path, "error", err)
		if c.notify != nil {
			c.notify(err)
		}
		return nil, err
	}
	c.api.setToken(resp.Token)
	return resp.User, nil
}

type refetcher interface {
	Refetch(ctx context.Context) error
}

func (c *Client) refetchers() map[string]refetcher {
	return map[string]refetcher{
		hub.EntityGroceryItems:  c.Groceries,
		hub.EntityFridgeItems:   c.Fridge,
		hub.EntityDishes:        c.Dishes,
		hub.EntityMealPlans:     c.MealPlans,
		hub.EntityFamilyMembers: c.FamilyMembers,
		hub.EntityPurchases:     c.Purchases,
	}
}

// RefetchAll reloads every collection concurrently. Shopping lists are
// included only when a token is set. The first error is returned; the
// other collections still finish.
func (c *Client) RefetchAll(ctx context.Context) error {
	var g errgroup.Group
	for _, r := range c.refetchers() {
		g.Go(func() error { return r.Refetch(ctx) })
	}
	if c.api.bearer() != "" {
		g.Go(func() error { return c.ShoppingLists.Refetch(ctx) })
	}
	return g.Wait()
}

// Close detaches every collection; in-flight responses no longer touch the
// caches.
func (c *Client) Close() {
	c.Groceries.Close()
	c.Fridge.Close()
	c.Dishes.Close()
	c.MealPlans.Close()
	c.FamilyMembers.Close()
	c.Purchases.Close()
	c.ShoppingLists.Close()
}

// Snapshot copies the cached collections for the aggregators.
type Snapshot struct {
	Groceries []model.GroceryItem
	Fridge    []model.FridgeItem
	Dishes    []model.Dish
	MealPlans []model.MealPlan
	Purchases []model.PurchaseRecord
}

func (c *Client) Snapshot() Snapshot {
	return Snapshot{
		Groceries: c.Groceries.List(),
		Fridge:    c.Fridge.List(),
		Dishes:    c.Dishes.List(),
		MealPlans: c.MealPlans.List(),
		Purchases: c.Purchases.List(),
	}
}
